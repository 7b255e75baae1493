package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// HOG entry names and OGF texture names are single-byte strings from a
// Win32-era game. Windows-1252 covers the retail data; the charmap is
// switchable for fan-made archives.
var currentCharmap *charmap.Charmap = charmap.Windows1252

func SetEncoding(name string) error {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				currentCharmap = cm
				return nil
			}
		}
	}
	return errors.Errorf("Failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

func GetEncoding() *charmap.Charmap {
	return currentCharmap
}
