// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package assetpipeline

import "os"

// osFileReader is the production [FileReader] backed by the local
// filesystem.
type osFileReader struct{}

// NewOSFileReader returns a [FileReader] that reads from disk.
func NewOSFileReader() FileReader {
	return osFileReader{}
}

func (osFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
