// FilePath: internal/models/models.hive.go
package models

// HiveConfig is the static descriptor of a single hive in the fleet
type HiveConfig struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ConfigList is the full set of configured hives
type ConfigList []HiveConfig

// Clone returns an independent copy of the config list
func (c ConfigList) Clone() ConfigList {
	if c == nil {
		return nil
	}
	cloned := make(ConfigList, len(c))
	copy(cloned, c)
	return cloned
}

// ByID indexes the configs by hive ID
func (c ConfigList) ByID() map[string]HiveConfig {
	index := make(map[string]HiveConfig, len(c))
	for _, hive := range c {
		index[hive.ID] = hive
	}
	return index
}

// Names returns the hive names in list order
func (c ConfigList) Names() []string {
	names := make([]string, 0, len(c))
	for _, hive := range c {
		names = append(names, hive.Name)
	}
	return names
}
