package constants

const (
	Version        = `0.1.0`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.notesearch/`

	// EnvPrefix is the prefix viper uses for environment overrides, e.g.
	// NOTESEARCH_ENGINE.
	EnvPrefix = `NOTESEARCH`

	NoteExt      = `.md`
	NoteFileType = `md`
)
