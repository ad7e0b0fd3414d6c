/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"fmt"
	"os"

	"github.com/named-data/ndnd/std/log"
)

var Log = log.Default()

var logFileObj *os.File

// OpenLogger initializes the logger from the configuration.
func OpenLogger(c *Config) error {
	level, err := log.ParseLevel(c.Core.LogLevel)
	if err != nil {
		return fmt.Errorf("log level %q: %w", c.Core.LogLevel, err)
	}

	// open file if filename is not empty
	if c.Core.LogFile == "" {
		logFileObj = os.Stderr
	} else {
		logFileObj, err = os.Create(c.ResolveRelPath(c.Core.LogFile))
		if err != nil {
			return err
		}
	}

	Log = log.NewText(logFileObj)
	Log.SetLevel(level)
	return nil
}

// CloseLogger closes the log file, if any.
func CloseLogger() {
	if logFileObj != nil && logFileObj != os.Stderr {
		logFileObj.Close()
	}
	logFileObj = nil
}
