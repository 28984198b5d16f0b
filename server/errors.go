// Copyright 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"fmt"
	"net/http"
	"os"

	gcs "cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/googleapi"

	"github.com/googlegenomics/ga4gh/protocol"
	"github.com/googlegenomics/ga4gh/reads"
	"github.com/googlegenomics/ga4gh/storage"
)

// apiError is used to capture errors that map to a protocol exception.
type apiError struct {
	name  string
	code  int
	cause error
}

func (err *apiError) Error() string {
	return fmt.Sprintf("%s (%d): %v", err.name, err.code, err.cause)
}

func newApiError(name string, code int, context string, err error) error {
	return &apiError{name, code, fmt.Errorf("%s: %v", context, err)}
}

func newInvalidInputError(context string, err error) error {
	return newApiError("InvalidInput", http.StatusBadRequest, context, err)
}

func newInvalidAuthenticationError(context string, err error) error {
	return newApiError("InvalidAuthentication", http.StatusUnauthorized, context, err)
}

func newPermissionDeniedError(context string, err error) error {
	return newApiError("PermissionDenied", http.StatusForbidden, context, err)
}

func newNotFoundError(context string, err error) error {
	return newApiError("NotFound", http.StatusNotFound, context, err)
}

func newUnsupportedMediaTypeError(err error) error {
	return &apiError{"UnsupportedMediaType", http.StatusUnsupportedMediaType, err}
}

func newNotImplementedError(operation string) error {
	return &apiError{"NotImplemented", http.StatusNotImplemented,
		fmt.Errorf("%s is not implemented", operation)}
}

func newPathNotFoundError(path string) error {
	return &apiError{"PathNotFound", http.StatusNotFound,
		fmt.Errorf("no handler for %s", path)}
}

// newStorageError translates storage engine failures into API errors.
func newStorageError(context string, err error) error {
	if err == storage.ErrMissingOrInvalidToken {
		return newPermissionDeniedError(context, err)
	}
	if err == gcs.ErrObjectNotExist || os.IsNotExist(err) {
		return newNotFoundError("object does not exist", err)
	}
	if err, ok := err.(*googleapi.Error); ok {
		switch err.Code {
		case http.StatusUnauthorized:
			return newInvalidAuthenticationError(context, err)
		case http.StatusForbidden:
			return newPermissionDeniedError(context, err)
		}
	}
	return err
}

// newSearchError translates datamodel failures raised while executing
// a search operation.
func newSearchError(context string, err error) error {
	switch e := err.(type) {
	case *reads.UnknownReferenceNameError, *reads.UnknownReferenceIDError:
		return newNotFoundError(context, err)
	case *reads.FileOpenFailedError:
		// Classify the storage failure behind the wrapper.
		return newStorageError(context, e.Err)
	}
	return fmt.Errorf("%s: %v", context, err)
}

// writeError writes a protocol exception describing err to the
// response.  Errors without an API mapping become internal errors so
// that their details are not leaked to clients.
func writeError(c *gin.Context, err error) {
	if err, ok := err.(*apiError); ok {
		c.JSON(err.code, protocol.GAException{
			ErrorCode: int32(err.code),
			Message:   fmt.Sprintf("%s: %v", err.name, err.cause),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, protocol.GAException{
		ErrorCode: int32(http.StatusInternalServerError),
		Message:   http.StatusText(http.StatusInternalServerError),
	})
}
