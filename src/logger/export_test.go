// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import "time"

// SetClock replaces the time source of j.
func SetClock(j *JSONLogger, now func() time.Time) { j.now = now }
