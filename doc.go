// Copyright 2026 The GPIOLCD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpiolcd is a container for the HD44780 GPIO driver, a terminal
// emulator of the module, and the gpiolcd command line tool.
package gpiolcd
