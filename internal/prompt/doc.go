// Package prompt renders lesson prompts. Wording, methodology descriptions,
// age-group notes and occupation-keyed exclusions and dialogue hints are YAML
// data; a default is embedded and a file path can override it.
package prompt
