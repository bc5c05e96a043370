package config

// Forgefile represents the structure of the forge.yaml settings file.
type Forgefile struct {
	Version string    `yaml:"version"`
	Node    *NodeDTO  `yaml:"node"`
	Cache   *CacheDTO `yaml:"cache"`
	Log     *LogDTO   `yaml:"log"`

	DefaultToolsVersion string `yaml:"defaultToolsVersion"`
}

// NodeDTO configures worker node behavior.
type NodeDTO struct {
	Reuse       *bool  `yaml:"reuse"`
	StayWarm    *bool  `yaml:"stayWarm"`
	FreeMemory  *bool  `yaml:"freeMemory"`
	IdleTimeout string `yaml:"idleTimeout"`
}

// CacheDTO configures the on-disk configuration cache.
type CacheDTO struct {
	Dir string `yaml:"dir"`
}

// LogDTO configures log output.
type LogDTO struct {
	JSON *bool `yaml:"json"`
}
