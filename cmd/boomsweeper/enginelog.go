package main

import (
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/boomsweeper/internal/mines"
)

// setupEngineLog sends the game engine's log to a rotated file next to
// stderr. Engine debug entries are only kept in development.
func setupEngineLog(filename string, development bool) error {
	level := logrus.InfoLevel
	if development {
		level = logrus.DebugLevel
	}
	mines.Log.SetLevel(level)

	if filename == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   filename,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return err
	}
	mines.Log.AddHook(hook)
	return nil
}
