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

// Package output writes call detail records to a local file as CSV or JSON,
// and performs the pre-flight checks that guard the destination before any
// network activity.
//
// The two formats behave differently on failure. CSV is streamed: the header
// comes from the first record written and every page is flushed as it
// arrives, so an aborted run leaves a valid, truncated file. JSON is
// buffered: all records are kept in memory and written once, atomically,
// when the writer is closed, so an aborted run writes nothing.
//
// Example usage:
//
//	if err := output.CheckDestination("cdrs.csv", false); err != nil {
//	    return err
//	}
//	w, err := output.NewFileWriter("cdrs.csv", output.FormatCSV)
//	if err != nil {
//	    return err
//	}
//	for page := range pages {
//	    if err := w.Write(page.Items); err != nil {
//	        _ = w.Abort()
//	        return err
//	    }
//	}
//	return w.Close()
package output
