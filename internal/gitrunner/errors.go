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

package gitrunner

import (
	"regexp"
	"strings"

	"github.com/isomerpages/testcms/internal/errors"
)

type GitExecErrorType int

const (
	Unknown GitExecErrorType = iota
	GitExecutableNotFound
	UnknownReference
	HTTPSAuthRequired
	RepositoryNotFound
	RepositoryUnavailable

	// Pull outcomes that the synchronizer treats as "nothing to do" rather
	// than failures. Classification is against git's textual stderr because
	// `git pull` exits 1 for all of them; keep the patterns in one place.
	NoUpstreamRef
	RefLocked
	FastForwardImpossible
	DivergentBranches
)

type GitExecError struct {
	Type    GitExecErrorType
	Args    []string
	Err     error
	Command string
	Repo    string
	Ref     string
	StdErr  string
	StdOut  string
}

func (e *GitExecError) Error() string {
	b := new(strings.Builder)
	b.WriteString(e.Err.Error())
	b.WriteString(": ")
	b.WriteString(e.StdErr)
	return b.String()
}

// AmendGitExecError adjusts the GitExecError in err's chain, if any.
// Used by callers to attach repo/ref context the runner does not know.
func AmendGitExecError(err error, f func(e *GitExecError)) {
	var gitExecErr *GitExecError
	if errors.As(err, &gitExecErr) {
		f(gitExecErr)
	}
}

// IsBenignPullError reports whether err is a pull failure the caller should
// treat as "pull had nothing new": no upstream ref yet, ref lock contention,
// fast-forward impossible, or divergent branches awaiting reconciliation.
func IsBenignPullError(err error) bool {
	var gitExecErr *GitExecError
	if !errors.As(err, &gitExecErr) {
		return false
	}
	switch gitExecErr.Type {
	case NoUpstreamRef, RefLocked, FastForwardImpossible, DivergentBranches:
		return true
	}
	return false
}

func determineErrorType(command, stdErr string) GitExecErrorType {
	if command == "pull" || command == "fetch" || command == "merge" {
		switch {
		case strings.Contains(stdErr, "couldn't find remote ref"),
			strings.Contains(stdErr, "no such ref was fetched"):
			return NoUpstreamRef
		case strings.Contains(stdErr, "cannot lock ref"):
			return RefLocked
		case strings.Contains(stdErr, "Not possible to fast-forward"):
			return FastForwardImpossible
		case strings.Contains(stdErr, "divergent branches"),
			strings.Contains(stdErr, "Need to specify how to reconcile"):
			return DivergentBranches
		}
	}
	switch {
	case strings.Contains(stdErr, "unknown revision or path not in the working tree"):
		return UnknownReference
	case strings.Contains(stdErr, "could not read Username"):
		return HTTPSAuthRequired
	case strings.Contains(stdErr, "Could not resolve host"):
		return RepositoryUnavailable
	case matches(`fatal: repository '.*' not found`, stdErr):
		return RepositoryNotFound
	}
	return Unknown
}

func matches(pattern, s string) bool {
	matched, err := regexp.Match(pattern, []byte(s))
	if err != nil {
		// This should only return an error if the pattern is invalid, so
		// we just panic if that happens.
		panic(err)
	}
	return matched
}
