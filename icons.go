package main

import (
	"fexplorer/internal/config"
	"fexplorer/internal/fsio"
)

type navigationIcons struct {
	back, next, up, reload string
}

type entryIcons struct {
	file, directory, symlink, unknown string
}

type iconConfig struct {
	navigation navigationIcons
	fs         entryIcons
}

var (
	asciiIcons = iconConfig{
		navigation: navigationIcons{back: "[B]", next: "[N]", up: "[U]", reload: "[R]"},
		fs:         entryIcons{file: "[F]", directory: "[D]", symlink: "[S]", unknown: "[?]"},
	}
	emojiIcons = iconConfig{
		navigation: navigationIcons{back: "🔙", next: "🔜", up: "🔝", reload: "🔄"},
		fs:         entryIcons{file: "📄", directory: "📁", symlink: "🔗", unknown: "❓"},
	}
)

func iconsFor(set config.IconSet) iconConfig {
	if set == config.IconsEmoji {
		return emojiIcons
	}
	return asciiIcons
}

func (c iconConfig) entry(t fsio.EntryType) string {
	switch t {
	case fsio.Directory:
		return c.fs.directory
	case fsio.File:
		return c.fs.file
	case fsio.Symlink:
		return c.fs.symlink
	default:
		return c.fs.unknown
	}
}
