package domain

import "strconv"

// PrincipalKind tags the variant held by a Principal.
type PrincipalKind int

const (
	PrincipalGuest PrincipalKind = iota
	PrincipalAccount
)

func (k PrincipalKind) String() string {
	switch k {
	case PrincipalAccount:
		return "account"
	default:
		return "guest"
	}
}

// Principal is the caller identity resolved from a bearer credential:
// either a registered account or a guest. AccountID is only meaningful
// when Kind is PrincipalAccount.
type Principal struct {
	Kind      PrincipalKind
	AccountID int64
}

func AccountPrincipal(id int64) Principal {
	return Principal{Kind: PrincipalAccount, AccountID: id}
}

func GuestPrincipal() Principal {
	return Principal{Kind: PrincipalGuest}
}

// Account returns the account id and true when p is a registered account.
func (p Principal) Account() (int64, bool) {
	if p.Kind != PrincipalAccount {
		return 0, false
	}
	return p.AccountID, true
}

// String renders the principal for logs and rate-limit keys.
func (p Principal) String() string {
	if id, ok := p.Account(); ok {
		return "account:" + strconv.FormatInt(id, 10)
	}
	return "guest"
}
