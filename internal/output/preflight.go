// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package output

import (
	"fmt"
	"os"
	"path/filepath"

	relayerrors "github.com/sirseerhq/cdr-relay/internal/errors"
)

// CheckDestination verifies, without touching the disk, that path can be
// written: its directory must exist, and the file itself must not exist
// unless overwrite is set.
func CheckDestination(path string, overwrite bool) error {
	if path == "" {
		return fmt.Errorf("output file name is required")
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("directory %q: %w", dir, relayerrors.ErrOutputDirMissing)
	}

	info, err = os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("output path %q is a directory", path)
	case err == nil && !overwrite:
		return fmt.Errorf("%s: %w. Use --overwrite to replace it", path, relayerrors.ErrOutputExists)
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("failed to check output file: %w", err)
	}

	return nil
}
