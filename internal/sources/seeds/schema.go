package seeds

// File is the top-level structure of a seeds yaml file.
type File struct {
	Workspaces []WorkspaceSeed `yaml:"workspaces"`
	Bins       []BinSeed       `yaml:"bins"`
}

// WorkspaceSeed declares one workspace to install on first run.
type WorkspaceSeed struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color,omitempty"`
}

// BinSeed declares one bin to install on first run.
type BinSeed struct {
	ID        string      `yaml:"id"`
	Workspace string      `yaml:"workspace"`
	Name      string      `yaml:"name"`
	Color     string      `yaml:"color,omitempty"`
	SortOrder int         `yaml:"sortOrder,omitempty"`
	Hashtags  HashtagSeed `yaml:"hashtags,omitempty"`
}

// HashtagSeed declares a bin's default hashtags per platform.
type HashtagSeed struct {
	YouTube   []string `yaml:"youtube,omitempty"`
	TikTok    []string `yaml:"tiktok,omitempty"`
	Instagram []string `yaml:"instagram,omitempty"`
}
