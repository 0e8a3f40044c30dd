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

package shell

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/readiness"
)

// route describes a json endpoint of the shell api
type route struct {
	path        string
	description string
	schema      func() (*openapi3.SchemaRef, error)
}

var routes = []route{
	{path: "/v1/status", description: "Returns the state of the shell", schema: statusSchema},
	{path: "/v1/readiness", description: "Returns the result of the last readiness check", schema: readiness.ResultSchema},
	{path: "/v1/report", description: "Returns the diagnostic report of the last readiness check", schema: readiness.ReportSchema},
}

func statusSchema() (*openapi3.SchemaRef, error) {
	return openapi3gen.NewSchemaRefForValue(Status{}, openapi3.Schemas{})
}

func newDoc() openapi3.T {
	return openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "readygate API",
			Description: "Serves the readiness state of the listing backend",
			Contact: &openapi3.Contact{
				URL:   "https://caas.telekom.de",
				Email: "caas-request@telekom.de",
				Name:  "CaaS Team",
			},
		},
		Paths:      make(openapi3.Paths),
		Extensions: make(map[string]any),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
		Servers: openapi3.Servers{},
	}
}

// OpenAPI generates the OpenAPI specification of the shell api
func OpenAPI(ctx context.Context) (openapi3.T, error) {
	log := logger.FromContext(ctx)
	doc := newDoc()
	for _, rt := range routes {
		ref, err := rt.schema()
		if err != nil {
			log.Error("Failed to get schema for route", "path", rt.path, "error", err)
			return openapi3.T{}, &ErrCreateOpenapiSchema{name: rt.path, err: err}
		}

		bodyDesc := fmt.Sprintf("Body of %s", rt.path)
		doc.Paths[rt.path] = &openapi3.PathItem{
			Get: &openapi3.Operation{
				Description: rt.description,
				Tags:        []string{"readiness"},
				Responses: openapi3.Responses{
					fmt.Sprint(http.StatusOK): &openapi3.ResponseRef{
						Value: &openapi3.Response{
							Description: &bodyDesc,
							Content:     openapi3.NewContentWithSchemaRef(ref, []string{"application/json"}),
						},
					},
				},
			},
		}
	}

	retryDesc := "Redirects to the page tree after a restart was requested"
	conflictDesc := "The shell is not in the failed state"
	doc.Paths["/retry"] = &openapi3.PathItem{
		Post: &openapi3.Operation{
			Description: "Restarts readygate from scratch, only allowed in the failed state",
			Tags:        []string{"shell"},
			Responses: openapi3.Responses{
				fmt.Sprint(http.StatusSeeOther): &openapi3.ResponseRef{Value: &openapi3.Response{Description: &retryDesc}},
				fmt.Sprint(http.StatusConflict): &openapi3.ResponseRef{Value: &openapi3.Response{Description: &conflictDesc}},
			},
		},
	}

	return doc, nil
}
