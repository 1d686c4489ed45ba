// internal/assistant/answer-question/config.go
package answerquestion

const (
	NotRelatedContext = "Data not related to the database. Just answer if it is related to our application."
	NoResultContext   = "There's no result found in our database or I can't interpret the data that you gave."
)

type Config struct {
	NotRelatedContext string
	NoResultContext   string
}

func LoadConfig() *Config {
	return &Config{
		NotRelatedContext: NotRelatedContext,
		NoResultContext:   NoResultContext,
	}
}
