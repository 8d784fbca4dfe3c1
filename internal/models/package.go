package models

// Package is one entry of a Packages index as shown by the previewer
type Package struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Filename string `json:"filename"`
}

// PackageGroup holds every version of one package name
type PackageGroup struct {
	Name     string    `json:"name"`
	Versions []Package `json:"versions"`
}
