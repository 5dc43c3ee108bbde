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
	"errors"
	"net/url"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/azureblob"
)

// Constants for Azure configuration options
const (
	AdlsSasTokenPrefix = "adls.sas-token."
	AdlsEndpoint       = "adls.endpoint"
	AdlsProtocol       = "adls.protocol"
)

var errNoContainer = errors.New("azure: container name is required")

// azureLocation splits "abfs://container@account.dfs.core.windows.net/key"
// into its container, account and storage domain. The dfs endpoint is
// served by the blob API so the domain is rewritten accordingly.
func azureLocation(parsed *url.URL) (container, account, domain string, err error) {
	if parsed.User == nil || parsed.User.Username() == "" {
		return "", "", "", errNoContainer
	}

	container = parsed.User.Username()
	account, domain, _ = strings.Cut(parsed.Hostname(), ".")
	domain = strings.Replace(domain, "dfs.", "blob.", 1)

	return container, account, domain, nil
}

func parseAzureOptions(account, domain string, props map[string]string) *azureblob.ServiceURLOptions {
	opts := azureblob.NewDefaultServiceURLOptions()
	opts.AccountName = account
	if domain != "" {
		opts.StorageDomain = domain
	}
	if endpoint := props[AdlsEndpoint]; endpoint != "" {
		opts.StorageDomain = endpoint
	}
	if protocol := props[AdlsProtocol]; protocol != "" {
		opts.Protocol = protocol
	}
	if token, ok := propertiesWithPrefix(props, AdlsSasTokenPrefix)[account]; ok {
		opts.SASToken = token
	}

	return opts
}

func createAzureBucket(ctx context.Context, parsed *url.URL, props map[string]string) (*blob.Bucket, error) {
	container, account, domain, err := azureLocation(parsed)
	if err != nil {
		return nil, err
	}

	serviceURL, err := azureblob.NewServiceURL(parseAzureOptions(account, domain, props))
	if err != nil {
		return nil, err
	}

	client, err := azureblob.NewDefaultClient(serviceURL, azureblob.ContainerName(container))
	if err != nil {
		return nil, err
	}

	return azureblob.OpenBucket(ctx, client, nil)
}
