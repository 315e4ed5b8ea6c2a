package transcript

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

type Options struct {
	RapidAPIKey    string
	SupadataAPIKey string
}

// Build instantiates providers in the given order. Keyed providers without
// a key are skipped; an unknown name is an error.
func Build(names []string, opts Options) ([]Provider, error) {
	providers := make([]Provider, 0, len(names))
	for _, name := range names {
		switch name {
		case "timedtext":
			providers = append(providers, NewTimedText())
		case "transcriptapi":
			providers = append(providers, NewTranscriptAPI())
		case "innertube":
			providers = append(providers, NewInnertube())
		case "rapidapi":
			if opts.RapidAPIKey == "" {
				log.Info().Msg("rapidapi transcript provider disabled: RAPIDAPI_KEY not set")
				continue
			}
			providers = append(providers, NewRapidAPI(opts.RapidAPIKey))
		case "supadata":
			if opts.SupadataAPIKey == "" {
				log.Info().Msg("supadata transcript provider disabled: SUPADATA_API_KEY not set")
				continue
			}
			providers = append(providers, NewSupadata(opts.SupadataAPIKey))
		default:
			return nil, fmt.Errorf("unknown transcript provider %q", name)
		}
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no transcript providers enabled")
	}
	return providers, nil
}
