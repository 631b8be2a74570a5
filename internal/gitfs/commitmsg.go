// Copyright 2024 The Isomer Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gitfs

import (
	"encoding/json"
	"strings"
)

// CommitMessage is the structured payload serialized into every commit
// message. It attributes the change to a CMS user independently of the git
// author field.
type CommitMessage struct {
	Message  string `json:"message"`
	FileName string `json:"fileName,omitempty"`
	UserID   string `json:"userId"`
}

// String serializes the payload for use as a git commit message.
func (m CommitMessage) String() string {
	b, err := json.Marshal(m)
	if err != nil {
		// marshalling a struct of strings cannot fail
		panic(err)
	}
	return string(b)
}

// ParseCommitMessage parses a commit message produced by String. The
// second return value is false for messages that are not structured
// payloads (e.g. commits made outside the CMS); the raw message is then
// carried in the Message field.
func ParseCommitMessage(raw string) (CommitMessage, bool) {
	raw = strings.TrimSpace(raw)
	var m CommitMessage
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return CommitMessage{Message: raw}, false
	}
	return m, true
}
