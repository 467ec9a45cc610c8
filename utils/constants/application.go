// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package constants

const (
	// ProtocolName namespaces hash prefixes and intent URIs.
	ProtocolName = "DIEM"

	// IntentScheme is the URI scheme of payment intents.
	IntentScheme = "diem"

	// AppName names the client in traces and metrics.
	AppName = "diem-client"

	// DefaultCurrency is the gas currency used when none is given.
	DefaultCurrency = "XUS"
)
