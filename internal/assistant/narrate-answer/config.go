// internal/assistant/narrate-answer/config.go
package narrateanswer

type Config struct {
	AppName        string
	AppDescription string
}

func LoadConfig() *Config {
	return &Config{
		AppName:        "AccentTrack",
		AppDescription: "a certificate tracker app that helps employees track their certification progress",
	}
}
