// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package constants

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ChainID is the single byte identifier of a network. Every response of a
// full node carries the chain id of the network it serves.
type ChainID uint8

// Const variables to be exported
const (
	MainnetID    ChainID = 1
	TestnetID    ChainID = 2
	DevnetID     ChainID = 3
	TestingID    ChainID = 4
	PremainnetID ChainID = 5

	MainnetName    = "mainnet"
	TestnetName    = "testnet"
	DevnetName     = "devnet"
	TestingName    = "testing"
	PremainnetName = "premainnet"

	MainnetHRP    = "dm"
	TestnetHRP    = "tdm"
	PremainnetHRP = "pdm"
	FallbackHRP   = TestnetHRP

	ValidNetworkPrefix = "network-"
)

// Variables to be exported
var (
	ChainIDToNetworkName = map[ChainID]string{
		MainnetID:    MainnetName,
		TestnetID:    TestnetName,
		DevnetID:     DevnetName,
		TestingID:    TestingName,
		PremainnetID: PremainnetName,
	}
	NetworkNameToChainID = map[string]ChainID{
		MainnetName:    MainnetID,
		TestnetName:    TestnetID,
		DevnetName:     DevnetID,
		TestingName:    TestingID,
		PremainnetName: PremainnetID,
	}

	ChainIDToHRP = map[ChainID]string{
		MainnetID:    MainnetHRP,
		TestnetID:    TestnetHRP,
		DevnetID:     TestnetHRP,
		TestingID:    TestnetHRP,
		PremainnetID: PremainnetHRP,
	}

	ErrParseNetworkName = errors.New("failed to parse network name")
)

// GetHRP returns the human-readable part of account identifiers for
// [chainID]
func GetHRP(chainID ChainID) string {
	if hrp, ok := ChainIDToHRP[chainID]; ok {
		return hrp
	}
	return FallbackHRP
}

// NetworkName returns a human readable name for the network with chain id
// [chainID]
func NetworkName(chainID ChainID) string {
	if name, exists := ChainIDToNetworkName[chainID]; exists {
		return name
	}
	return fmt.Sprintf("%s%d", ValidNetworkPrefix, chainID)
}

// ParseChainID returns the chain id named by [networkName]. Known network
// names, "network-<id>" and bare integers are accepted.
func ParseChainID(networkName string) (ChainID, error) {
	networkName = strings.ToLower(networkName)
	if id, exists := NetworkNameToChainID[networkName]; exists {
		return id, nil
	}

	idStr := strings.TrimPrefix(networkName, ValidNetworkPrefix)
	id, err := strconv.ParseUint(idStr, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParseNetworkName, networkName)
	}
	return ChainID(id), nil
}

func (c ChainID) String() string { return NetworkName(c) }
