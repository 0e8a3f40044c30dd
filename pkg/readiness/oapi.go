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
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// ResultSchema returns the openapi schema of a Result
func ResultSchema() (*openapi3.SchemaRef, error) {
	return schemaFor(Result{})
}

// ReportSchema returns the openapi schema of a Report
func ReportSchema() (*openapi3.SchemaRef, error) {
	return schemaFor(Report{})
}

func schemaFor[T any](value T) (*openapi3.SchemaRef, error) {
	return openapi3gen.NewSchemaRefForValue(value, openapi3.Schemas{}, openapi3gen.UseAllExportedFields())
}
