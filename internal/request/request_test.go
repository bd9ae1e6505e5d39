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
package request

import (
	"context"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://files.example.com/photo.jpg",
		httpmock.NewBytesResponder(200, []byte("jpeg-bytes")))

	data, err := Get(context.Background(), "https://files.example.com/photo.jpg")
	assert.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestGetNonSuccessStatus(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://files.example.com/gone.jpg",
		httpmock.NewStringResponder(404, "not found"))

	_, err := Get(context.Background(), "https://files.example.com/gone.jpg")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
