// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package identifier

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/diem/client-sdk-go/utils/constants"
)

const (
	currencyParam = "c"
	amountParam   = "am"
)

var (
	ErrInvalidScheme  = errors.New("invalid intent scheme")
	ErrInvalidURI     = errors.New("invalid intent uri")
	ErrInvalidAmount  = errors.New("invalid intent amount")
	ErrMissingAccount = errors.New("intent has no account")
)

// Intent is a request to pay an account, optionally a specific amount of a
// specific currency.
type Intent struct {
	Account *AccountIdentifier
	// Currency is the currency code, empty when absent.
	Currency string
	// Amount is in micro-units, nil when absent.
	Amount *uint64
}

// Encode returns diem://<account identifier>[?am=<amount>][&c=<currency>].
func (i *Intent) Encode() (string, error) {
	if i.Account == nil {
		return "", ErrMissingAccount
	}
	account, err := i.Account.Encode()
	if err != nil {
		return "", err
	}

	params := url.Values{}
	if i.Amount != nil {
		params.Set(amountParam, strconv.FormatUint(*i.Amount, 10))
	}
	if i.Currency != "" {
		params.Set(currencyParam, i.Currency)
	}
	u := url.URL{
		Scheme:   constants.IntentScheme,
		Host:     account,
		RawQuery: params.Encode(),
	}
	return u.String(), nil
}

// String returns the encoding of the intent or the empty string if it can
// not be encoded.
func (i *Intent) String() string {
	str, _ := i.Encode()
	return str
}

// DecodeIntent parses an intent URI whose account identifier belongs to the
// network identified by [expectedHRP].
func DecodeIntent(expectedHRP string, uri string) (*Intent, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURI, err)
	}
	if u.Scheme != constants.IntentScheme {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScheme, u.Scheme)
	}
	if u.Path != "" || u.User != nil || u.Fragment != "" {
		return nil, fmt.Errorf("%w: unexpected uri component", ErrInvalidURI)
	}
	account, err := Decode(expectedHRP, u.Host)
	if err != nil {
		return nil, err
	}
	params, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURI, err)
	}

	intent := &Intent{
		Account:  account,
		Currency: params.Get(currencyParam),
	}
	if amountStr := params.Get(amountParam); amountStr != "" {
		amount, err := strconv.ParseUint(amountStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amountStr)
		}
		intent.Amount = &amount
	}
	return intent, nil
}
