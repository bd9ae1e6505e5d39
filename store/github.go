/*
Copyright 2024 Quill Press Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	committerName  = "Quill Bot"
	committerEmail = "bot@quillpress.dev"
)

// GitHubStore persists files through the GitHub contents API. The blob SHA
// GitHub reports for a file is used as its version tag, so a conditioned
// write maps directly onto the API's own SHA check.
type GitHubStore struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

// NewGitHubStore returns a store bound to one repository. An empty branch
// targets the repository's default branch.
func NewGitHubStore(token, owner, repo, branch string) *GitHubStore {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	return &GitHubStore{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
		branch: branch,
	}
}

// NewGitHubStoreWithClient is like NewGitHubStore but uses the provided HTTP
// client. Tests use this to intercept API traffic.
func NewGitHubStoreWithClient(httpClient *http.Client, owner, repo, branch string) *GitHubStore {
	return &GitHubStore{
		client: github.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
		branch: branch,
	}
}

// Read fetches the file at path along with its current blob SHA. A missing
// file is reported as ErrNotFound, never as a hard failure.
func (s *GitHubStore) Read(ctx context.Context, path string) (*File, error) {
	opts := &github.RepositoryContentGetOptions{Ref: s.branch}
	fileContent, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("store: %s is a directory, not a file", path)
	}

	decoded, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", path, err)
	}
	return &File{Content: []byte(decoded), Version: fileContent.GetSHA()}, nil
}

// Write commits content to path and returns the new blob SHA. See
// FileStore.Write for the semantics of expected.
func (s *GitHubStore) Write(ctx context.Context, path string, content []byte, message string, expected *string) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Committer: &github.CommitAuthor{
			Name:  github.String(committerName),
			Email: github.String(committerEmail),
		},
	}
	if s.branch != "" {
		opts.Branch = github.String(s.branch)
	}

	switch {
	case expected == nil:
		// Last-writer-wins: resolve the current SHA ourselves, then update
		// or create accordingly.
		current, err := s.Read(ctx, path)
		switch {
		case err == nil:
			opts.SHA = github.String(current.Version)
		case err == ErrNotFound:
			// fresh file
		default:
			return "", err
		}
	case *expected == "":
		// strict create; opts.SHA stays unset
	default:
		opts.SHA = github.String(*expected)
	}

	var (
		res  *github.RepositoryContentResponse
		resp *github.Response
		err  error
	)
	if opts.SHA != nil {
		res, resp, err = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, path, opts)
	} else {
		res, resp, err = s.client.Repositories.CreateFile(ctx, s.owner, s.repo, path, opts)
	}
	if err != nil {
		if isConflictStatus(resp) {
			logrus.WithFields(logrus.Fields{"path": path}).Warn("conditioned write lost the race")
			conflictTag := ""
			if expected != nil {
				conflictTag = *expected
			}
			return "", &ConflictError{Path: path, Expected: conflictTag}
		}
		return "", fmt.Errorf("store: write %s: %w", path, err)
	}
	return res.Content.GetSHA(), nil
}

// isConflictStatus reports whether the response signals a SHA mismatch. The
// contents API answers 409 for a stale SHA and 422 when the file already
// exists and no SHA was supplied.
func isConflictStatus(resp *github.Response) bool {
	if resp == nil {
		return false
	}
	return resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity
}
