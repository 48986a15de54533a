package models

import "strings"

// Options for the CLI.
// Every option can also be set through an environment variable with the
// SERVICE_ prefix, e.g. SERVICE_PORT=8000.
type Options struct {
	Debug            bool   `doc:"Enable debug logging" short:"d" default:"false"`
	Host             string `doc:"Hostname to listen on" default:"localhost"`
	Port             int    `doc:"Port to listen on" short:"p" default:"8000"`
	DatabaseURL      string `doc:"Database connection string (falls back to DATABASE_URL)"`
	ProviderKey      string `doc:"Completion provider API key (falls back to OPENAI_API_KEY)"`
	ProviderKeyParam string `doc:"AWS SSM parameter holding the provider API key, used when no key is set"`
	ProviderURL      string `doc:"Base URL of the OpenAI-compatible completion API" default:"https://api.openai.com/v1"`
	Model            string `doc:"Completion model identifier" default:"gpt-3.5-turbo"`
	AllowedOrigins   string `doc:"Comma-separated list of CORS origins" default:"http://localhost,http://localhost:3000"`
}

// OriginList returns the configured CORS origins, trimmed and without empty
// entries.
func (o *Options) OriginList() []string {
	origins := []string{}
	for _, origin := range strings.Split(o.AllowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
