// Package catalog builds the tool registry from a configuration
// snapshot. Registration is a pure function of the config captured at
// startup: base tools are always present and AI tools are present iff
// an inference credential is configured. The capability decision is
// made exactly once; nothing re-reads the environment per call.
package catalog

import (
	"videomcp/internal/analyze"
	"videomcp/internal/config"
	"videomcp/internal/groq"
	"videomcp/internal/logging"
	"videomcp/internal/media"
	"videomcp/internal/tools"
	"videomcp/internal/tools/ai"
	videotools "videomcp/internal/tools/video"
	yttools "videomcp/internal/tools/youtube"
	"videomcp/internal/youtube"
)

// Build assembles the registry for the given config using the real
// exec-backed runner and HTTP inference client.
func Build(cfg *config.Config) (*tools.Registry, error) {
	return BuildWithRunner(cfg, media.ExecRunner{})
}

// BuildWithRunner assembles the registry with an injected Runner so
// tests can substitute fakes for the external binaries.
func BuildWithRunner(cfg *config.Config, runner media.Runner) (*tools.Registry, error) {
	registry := tools.NewRegistry(cfg.Output.Dir)

	ff := media.NewFFmpeg(cfg.Media, runner)
	dl := youtube.NewDownloader(cfg.YouTube, runner)

	aiEnabled := cfg.AIEnabled()

	if err := videotools.RegisterAll(registry, ff, aiEnabled); err != nil {
		return nil, err
	}
	if err := yttools.RegisterAll(registry, dl); err != nil {
		return nil, err
	}

	if aiEnabled {
		client := groq.NewClient(cfg.Groq)
		analyzer := analyze.New(ff, client, cfg.Output.Dir)
		if err := ai.RegisterAll(registry, analyzer); err != nil {
			return nil, err
		}
		logging.Get(logging.CategoryBoot).Info("AI tools enabled (%d tools total)", registry.Count())
	} else {
		logging.Get(logging.CategoryBoot).Info("AI tools disabled: no inference credential (%d tools total)", registry.Count())
	}

	return registry, nil
}
