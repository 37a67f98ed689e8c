// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package pfx edits bag attributes of [PKCS12] archives produced by
// go-pkcs12. It stores a friendlyName on the shrouded key bag, which the
// encoder leaves out, and reads it back without the archive password.
//
// Archives are re-sealed with the same MAC algorithm, salt and iteration
// count; the existing MAC is checked before anything is changed.
//
// [PKCS12]: https://datatracker.ietf.org/doc/html/rfc7292
package pfx
