// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package utils

import (
	"fmt"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// KeyFileExtension is the extension of exported encrypted key files.
const KeyFileExtension = ".key"

// PathExists returns true if the named file or directory exists, otherwise false
func PathExists(p string) bool {
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// HomeDir returns the user's current HOME directory
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// ExpandDir expands a tilde prefix path to a full home path
func ExpandDir(targetPath string) string {
	if strings.HasPrefix(targetPath, "~\\") || strings.HasPrefix(targetPath, "~/") {
		if homeDir := HomeDir(); homeDir != "" {
			targetPath = homeDir + targetPath[1:]
		}
	} else if strings.HasPrefix(targetPath, ".\\") || strings.HasPrefix(targetPath, "./") {
		targetPath, _ = filepath.Abs(targetPath)
	}
	return path.Clean(os.ExpandEnv(targetPath))
}

// BasePath returns the directory of the given name within the anoma
// directory of the user's HOME directory, or the name itself if HOME
// cannot be located.
func BasePath(name string) string {
	home := HomeDir()
	if home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Anoma", name)
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "Anoma", name)
		default:
			return filepath.Join(home, ".anoma", name)
		}
	}
	return name
}

// KeystoreDir returns the absolute filepath of the keystore directory
// of the basepath, creating it if needed.
func KeystoreDir(basepath string) (keystorepath string, err error) {
	keystorepath, err = filepath.Abs(filepath.Join(ExpandDir(basepath), "keystore"))
	if err != nil {
		return "", fmt.Errorf("failed to create absolute filepath: %s", err)
	}

	if err = os.MkdirAll(keystorepath, 0700); err != nil {
		return "", fmt.Errorf("failed to create keystore directory: %s", err)
	}

	return keystorepath, nil
}

// KeystoreFiles returns the filenames of all the keys in the basepath's keystore
func KeystoreFiles(basepath string) ([]string, error) {
	keystorepath, err := KeystoreDir(basepath)
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore directory: %s", err)
	}

	files, err := os.ReadDir(keystorepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore directory: %s", err)
	}

	keys := []string{}
	for _, f := range files {
		if filepath.Ext(f.Name()) == KeyFileExtension {
			keys = append(keys, f.Name())
		}
	}

	return keys, nil
}
