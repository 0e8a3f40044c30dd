// readygate
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package readiness

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/caas-team/readygate/pkg/backend"
)

// Category groups failures by the remediation they need
type Category string

const (
	CategoryConfiguration Category = "configuration"
	CategoryNetwork       Category = "network"
	CategoryRules         Category = "rules"
	CategoryIndexes       Category = "indexes"
	CategoryUnknown       Category = "unknown"

	// report only, never returned by Classify
	CategoryAuthentication Category = "authentication"
	CategoryBilling        Category = "billing"
)

// Error codes as reported by the Firebase SDKs
const (
	CodeNotInitialized     = "not-initialized"
	CodeCancelled          = "cancelled"
	CodeUnknown            = "unknown"
	CodeInvalidArgument    = "invalid-argument"
	CodeDeadlineExceeded   = "deadline-exceeded"
	CodeNotFound           = "not-found"
	CodeAlreadyExists      = "already-exists"
	CodePermissionDenied   = "permission-denied"
	CodeResourceExhausted  = "resource-exhausted"
	CodeFailedPrecondition = "failed-precondition"
	CodeAborted            = "aborted"
	CodeOutOfRange         = "out-of-range"
	CodeUnimplemented      = "unimplemented"
	CodeInternal           = "internal"
	CodeUnavailable        = "unavailable"
	CodeDataLoss           = "data-loss"
	CodeUnauthenticated    = "unauthenticated"
)

var grpcCodes = map[codes.Code]string{
	codes.Canceled:           CodeCancelled,
	codes.Unknown:            CodeUnknown,
	codes.InvalidArgument:    CodeInvalidArgument,
	codes.DeadlineExceeded:   CodeDeadlineExceeded,
	codes.NotFound:           CodeNotFound,
	codes.AlreadyExists:      CodeAlreadyExists,
	codes.PermissionDenied:   CodePermissionDenied,
	codes.ResourceExhausted:  CodeResourceExhausted,
	codes.FailedPrecondition: CodeFailedPrecondition,
	codes.Aborted:            CodeAborted,
	codes.OutOfRange:         CodeOutOfRange,
	codes.Unimplemented:      CodeUnimplemented,
	codes.Internal:           CodeInternal,
	codes.Unavailable:        CodeUnavailable,
	codes.DataLoss:           CodeDataLoss,
	codes.Unauthenticated:    CodeUnauthenticated,
}

var httpCodes = map[int]string{
	http.StatusBadRequest:          CodeInvalidArgument,
	http.StatusUnauthorized:        CodeUnauthenticated,
	http.StatusForbidden:           CodePermissionDenied,
	http.StatusNotFound:            CodeNotFound,
	http.StatusConflict:            CodeAlreadyExists,
	http.StatusPreconditionFailed:  CodeFailedPrecondition,
	http.StatusTooManyRequests:     CodeResourceExhausted,
	http.StatusInternalServerError: CodeInternal,
	http.StatusNotImplemented:      CodeUnimplemented,
	http.StatusServiceUnavailable:  CodeUnavailable,
	http.StatusGatewayTimeout:      CodeDeadlineExceeded,
}

// ErrorCode converts an error returned by a backend handle
// into the code string the Firebase SDKs use.
// It returns an empty string for a nil error.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, backend.ErrUnavailable) {
		return CodeNotInitialized
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.OK {
		if c, ok := grpcCodes[s.Code()]; ok {
			return c
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if c, ok := httpCodes[gErr.Code]; ok {
			return c
		}
		return CodeUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CodeDeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return CodeCancelled
	}

	var nErr net.Error
	if errors.As(err, &nErr) {
		if nErr.Timeout() {
			return CodeDeadlineExceeded
		}
		return CodeUnavailable
	}
	return CodeUnknown
}

// Classify maps an error code to the category of remediation it needs
func Classify(code string) Category {
	switch code {
	case CodePermissionDenied:
		return CategoryRules
	case CodeFailedPrecondition:
		return CategoryIndexes
	case CodeUnavailable:
		return CategoryNetwork
	default:
		return CategoryUnknown
	}
}

// IndexConsoleURL returns the console page where the indexes of the project are managed
func IndexConsoleURL(projectID string) string {
	return fmt.Sprintf("https://console.firebase.google.com/project/%s/firestore/indexes", projectID)
}

// Remediation returns the user facing message for a category.
// Unknown failures have no targeted remediation; the raw message is shown instead.
func Remediation(c Category, projectID string) string {
	switch c {
	case CategoryConfiguration:
		return "The Firebase configuration is incomplete. Supply the missing values from the Firebase console and restart."
	case CategoryNetwork:
		return "Unable to reach the database. Check the network connection and firewall settings, then retry."
	case CategoryRules:
		return "Access denied by the Firestore security rules. Sign in to continue or contact support."
	case CategoryIndexes:
		return fmt.Sprintf("Required Firestore indexes are missing. Create them at %s", IndexConsoleURL(projectID))
	case CategoryAuthentication:
		return "Check the Firebase Authentication setup of the project."
	case CategoryBilling:
		return "Enable billing for the Firebase project."
	default:
		return ""
	}
}
