package models

type Word struct {
	ID              string      `json:"id" yaml:"id"`
	English         string      `json:"english" yaml:"english"`
	IPA             string      `json:"ipa" yaml:"ipa"`
	Script          string      `json:"script" yaml:"script"`
	Transliteration string      `json:"transliteration" yaml:"transliteration"`
	Definition      string      `json:"definition" yaml:"definition"`
	Examples        []string    `json:"examples" yaml:"examples"`
	Morphology      *Morphology `json:"morphology,omitempty" yaml:"morphology,omitempty"`
}

type Morphology struct {
	Root         string   `json:"root,omitempty" yaml:"root,omitempty"`
	DerivedForms []string `json:"derived_forms,omitempty" yaml:"derived_forms,omitempty"`
}
