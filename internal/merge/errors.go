package merge

import "errors"

// Merge precondition and handshake failures. Handlers map these onto
// distinct HTTP outcomes so the confirmation UI can tell "token invalid or
// expired" from "token valid but same user" from "proceed".
var (
	ErrNotFound      = errors.New("merge: request not found")
	ErrExpired       = errors.New("merge: request expired")
	ErrSameAccount   = errors.New("merge: caller is the requester")
	ErrInvalidMerge  = errors.New("merge: target and source are the same account")
	ErrAlreadyMerged = errors.New("merge: accounts already share a profile")
	ErrNoProfile     = errors.New("merge: account has no profile")
	ErrAlreadyOwned  = errors.New("merge: identity already belongs to caller")
)
