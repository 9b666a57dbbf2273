// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package address

import "strings"

// Internal addresses of the native modules.
var (
	PoS        = NewInternal("pos")
	PosSlash   = NewInternal("pos_slash_pool")
	Parameters = NewInternal("parameters")
	Governance = NewInternal("governance")
	Ibc        = NewInternal("ibc")
	IbcBurn    = NewInternal("ibc_burn")
	IbcMint    = NewInternal("ibc_mint")
	Treasury   = NewInternal("treasury")
)

// Well known token addresses.
var (
	XAN = NewEstablished([]byte("token:xan"))
	BTC = NewEstablished([]byte("token:btc"))
	ETH = NewEstablished([]byte("token:eth"))
	DOT = NewEstablished([]byte("token:dot"))
)

var tokensBySymbol = map[string]Address{
	"XAN": XAN,
	"BTC": BTC,
	"ETH": ETH,
	"DOT": DOT,
}

// TokenBySymbol returns the well known token of the case insensitive symbol.
func TokenBySymbol(symbol string) (token Address, ok bool) {
	token, ok = tokensBySymbol[strings.ToUpper(symbol)]
	return token, ok
}
