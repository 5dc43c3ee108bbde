// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package io

import (
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/tablestats/rgfilter"
	"gocloud.dev/blob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/gcp"
	"google.golang.org/api/option"
)

// Properties read when opening gs:// locations.
const (
	GCSEndpoint  = "gcs.endpoint"
	GCSKeyPath   = "gcs.keypath"
	GCSJSONKey   = "gcs.jsonkey"
	GCSCredType  = "gcs.credtype"
	GCSJSONReads = "gcs.json-reads"
	GCSAnonymous = "gcs.anonymous"
)

var gcsCredTypes = map[string]option.CredentialsType{
	"service_account":              option.ServiceAccount,
	"authorized_user":              option.AuthorizedUser,
	"impersonated_service_account": option.ImpersonatedServiceAccount,
	"external_account":             option.ExternalAccount,
}

// ParseGCSConfig turns gcs.* properties into bucket options. A key given
// inline or as a file needs a known gcs.credtype, defaulting to
// service_account.
func ParseGCSConfig(props map[string]string) (*gcsblob.Options, error) {
	p := rgfilter.Properties(props)

	var o []option.ClientOption
	if endpoint := p.Get(GCSEndpoint, ""); endpoint != "" {
		o = append(o, option.WithEndpoint(endpoint))
	}

	jsonKey, keyPath := p.Get(GCSJSONKey, ""), p.Get(GCSKeyPath, "")
	if jsonKey != "" && keyPath != "" {
		return nil, fmt.Errorf("%w: only one of %s and %s may be set",
			rgfilter.ErrInvalidArgument, GCSJSONKey, GCSKeyPath)
	}

	credName := p.Get(GCSCredType, "service_account")
	credType, ok := gcsCredTypes[credName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown %s '%s'",
			rgfilter.ErrInvalidArgument, GCSCredType, credName)
	}

	switch {
	case jsonKey != "":
		o = append(o, option.WithAuthCredentialsJSON(credType, []byte(jsonKey)))
	case keyPath != "":
		o = append(o, option.WithAuthCredentialsFile(credType, keyPath))
	}

	if p.GetBool(GCSJSONReads, false) {
		o = append(o, storage.WithJSONReads())
	}

	return &gcsblob.Options{ClientOptions: o}, nil
}

// createGCSBucket uses the default credentials unless gcs.anonymous is set
// or none are found, in which case only public buckets can be read.
func createGCSBucket(ctx context.Context, parsed *url.URL, props map[string]string) (*blob.Bucket, error) {
	opts, err := ParseGCSConfig(props)
	if err != nil {
		return nil, err
	}

	client := gcp.NewAnonymousHTTPClient(gcp.DefaultTransport())
	if !rgfilter.Properties(props).GetBool(GCSAnonymous, false) {
		if creds, _ := gcp.DefaultCredentials(ctx); creds != nil {
			client, err = gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
			if err != nil {
				return nil, fmt.Errorf("gcs client for bucket %s: %w", parsed.Host, err)
			}
		}
	}

	return gcsblob.OpenBucket(ctx, client, parsed.Host, opts)
}
