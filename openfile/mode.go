// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package openfile implements the Open-File object: a shared,
// reference-counted wrapper around a vnode carrying an access mode and a
// byte offset, serialized by its own lock.
package openfile

// AccessMode is the access-mode portion of a File's mode: READ, WRITE,
// or READWRITE.
type AccessMode int

const (
	Read AccessMode = iota
	Write
	ReadWrite
)

// Mode bundles the access mode with the append bit: "mode" is one of
// {READ, WRITE, READWRITE} plus an optional APPEND modifier.
type Mode struct {
	Access AccessMode
	Append bool
}

// Readable reports whether reads are permitted under m.
func (m Mode) Readable() bool {
	return m.Access == Read || m.Access == ReadWrite
}

// Writable reports whether writes are permitted under m.
func (m Mode) Writable() bool {
	return m.Access == Write || m.Access == ReadWrite
}
