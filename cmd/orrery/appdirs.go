package main

import (
	"os"
	"path/filepath"

	"github.com/chasinglogic/appdirs"
)

const (
	appName       = "orrery"
	logFolderName = "log"
	runFolderName = "runs"
	logFileName   = "orrery.log"
	configName    = "orrery.yaml"
)

func userDataDir() string {
	return appdirs.New(appName).UserData()
}

func defaultDataDir() string {
	return filepath.Join(userDataDir(), runFolderName)
}

// defaultConfigPath is where config init writes and where the config is
// picked up when --config is not given.
func defaultConfigPath() string {
	return filepath.Join(userDataDir(), configName)
}

func initLogFile() (string, error) {
	dir := filepath.Join(userDataDir(), logFolderName)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}
