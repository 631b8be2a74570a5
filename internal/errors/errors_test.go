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

package errors_test

import (
	"fmt"
	"testing"

	"github.com/isomerpages/testcms/internal/errors"
	"github.com/isomerpages/testcms/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	testCases := map[string]struct {
		err      error
		expected string
	}{
		"op and kind": {
			err:      errors.E(errors.Op("gitfs.Create"), errors.Conflict),
			expected: "gitfs.Create: conflict",
		},
		"op, path and wrapped cause": {
			err: errors.E(errors.Op("gitfs.Update"),
				types.UniquePath("/repos/my-site/pages/a.md"),
				errors.Git, fmt.Errorf("exit status 1")),
			expected: "gitfs.Update: path /repos/my-site/pages/a.md: git error: exit status 1",
		},
		"nested errors drop repeated fields": {
			err: errors.E(errors.Op("gitfs.Push"),
				errors.E(errors.Op("gitfs.Push"), errors.Git, "remote hung up")),
			expected: "gitfs.Push:\n\tgit error: remote hung up",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestIsKind(t *testing.T) {
	inner := errors.E(errors.Op("gitfs.Read"), errors.NotFound)
	outer := errors.E(errors.Op("cms.Read"), inner)

	assert.True(t, errors.IsKind(outer, errors.NotFound))
	assert.False(t, errors.IsKind(outer, errors.Conflict))
	assert.False(t, errors.IsKind(nil, errors.NotFound))
}
