package merge

import (
	"testing"
	"time"

	"github.com/kuip/nomen/internal/db/models"
)

func TestCreateRequest_SupersedesPrior(t *testing.T) {
	database := newTestDB(t)
	requester := seedAccount(t, database, "google", map[string]string{"email": "a@x.com"})

	first, err := CreateRequest(database, requester, 0)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := CreateRequest(database, requester, 0)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if first.Token == second.Token {
		t.Fatal("tokens must be distinct")
	}

	var count int64
	database.Model(&models.MergeRequest{}).Where("requester_account_id = ?", requester).Count(&count)
	if count != 1 {
		t.Fatalf("requester must have exactly one live request, got %d", count)
	}

	// The superseded token is dead for every operation.
	caller := seedAccount(t, database, "github", map[string]string{"email": "b@x.com"})
	if _, err := GetRequesterInfo(database, first.Token, caller); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for superseded token, got %v", err)
	}
	if _, err := ExecuteWithToken(database, nil, first.Token, caller); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on execute with superseded token, got %v", err)
	}
}

func TestGetRequesterInfo_Outcomes(t *testing.T) {
	database := newTestDB(t)
	requester := seedAccount(t, database, "google", map[string]string{"email": "a@x.com", "name": "Ann"})
	caller := seedAccount(t, database, "github", map[string]string{"email": "b@x.com"})

	request, err := CreateRequest(database, requester, 0)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	// Unknown token.
	if _, err := GetRequesterInfo(database, "mrg-bogus", caller); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Caller re-authenticated as the requester: distinguished outcome.
	if _, err := GetRequesterInfo(database, request.Token, requester); err != ErrSameAccount {
		t.Fatalf("expected ErrSameAccount, got %v", err)
	}

	// Valid: informed-consent payload carries the requester's preferred
	// display name and email.
	info, err := GetRequesterInfo(database, request.Token, caller)
	if err != nil {
		t.Fatalf("requester info: %v", err)
	}
	if info.DisplayName != "Ann" || info.Email != "a@x.com" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestGetRequesterInfo_Expired(t *testing.T) {
	database := newTestDB(t)
	requester := seedAccount(t, database, "google", map[string]string{"email": "a@x.com"})
	caller := seedAccount(t, database, "github", map[string]string{"email": "b@x.com"})

	request, err := CreateRequest(database, requester, time.Millisecond)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := GetRequesterInfo(database, request.Token, caller); err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if _, err := ExecuteWithToken(database, nil, request.Token, caller); err != ErrExpired {
		t.Fatalf("expected ErrExpired on execute, got %v", err)
	}
}

func TestCancelRequest_Idempotent(t *testing.T) {
	database := newTestDB(t)
	requester := seedAccount(t, database, "google", map[string]string{"email": "a@x.com"})

	request, err := CreateRequest(database, requester, 0)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	if err := CancelRequest(database, request.Token); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := CancelRequest(database, request.Token); err != nil {
		t.Fatalf("second cancel must succeed: %v", err)
	}
	if err := CancelRequest(database, "mrg-bogus"); err != nil {
		t.Fatalf("cancel of unknown token must succeed: %v", err)
	}
}

func TestExecuteWithToken_RequesterSurvives(t *testing.T) {
	database := newTestDB(t)
	requester := seedAccount(t, database, "google", map[string]string{"email": "a@x.com", "name": "Ann"})
	caller := seedAccount(t, database, "github", map[string]string{"email": "b@x.com"})
	gateway := &recordingGateway{db: database}

	request, err := CreateRequest(database, requester, 0)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	result, err := ExecuteWithToken(database, gateway, request.Token, caller)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	// Requester is the survivor; the caller's account was absorbed.
	if result.TargetAccountID != requester || result.SourceAccountID != caller {
		t.Fatalf("wrong direction: %+v", result)
	}
	var n int64
	database.Model(&models.Account{}).Where("id = ?", caller).Count(&n)
	if n != 0 {
		t.Fatal("caller account must be absorbed")
	}
	database.Model(&models.Account{}).Where("id = ?", requester).Count(&n)
	if n != 1 {
		t.Fatal("requester account must survive")
	}
}

func TestExecuteWithToken_SingleUse(t *testing.T) {
	database := newTestDB(t)
	requester := seedAccount(t, database, "google", map[string]string{"email": "a@x.com"})
	caller := seedAccount(t, database, "github", map[string]string{"email": "b@x.com"})
	gateway := &recordingGateway{db: database}

	request, err := CreateRequest(database, requester, 0)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	if _, err := ExecuteWithToken(database, gateway, request.Token, caller); err != nil {
		t.Fatalf("first execute: %v", err)
	}
	if _, err := ExecuteWithToken(database, gateway, request.Token, caller); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on reuse, got %v", err)
	}
}

func TestExecuteWithToken_SelfConsumesTokenWithoutMutation(t *testing.T) {
	database := newTestDB(t)
	requester := seedAccount(t, database, "google", map[string]string{"email": "a@x.com"})

	request, err := CreateRequest(database, requester, 0)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	if _, err := ExecuteWithToken(database, nil, request.Token, requester); err != ErrInvalidMerge {
		t.Fatalf("expected ErrInvalidMerge, got %v", err)
	}

	// No mutation: the requester's account still exists.
	var n int64
	database.Model(&models.Account{}).Where("id = ?", requester).Count(&n)
	if n != 1 {
		t.Fatal("self-merge must not mutate anything")
	}

	// Token consumed even on failure.
	database.Model(&models.MergeRequest{}).Where("token = ?", request.Token).Count(&n)
	if n != 0 {
		t.Fatal("token must be single-use even on failure")
	}
}

func TestCleanupExpired(t *testing.T) {
	database := newTestDB(t)
	a := seedAccount(t, database, "google", map[string]string{"email": "a@x.com"})
	b := seedAccount(t, database, "github", map[string]string{"email": "b@x.com"})

	if _, err := CreateRequest(database, a, time.Millisecond); err != nil {
		t.Fatalf("create: %v", err)
	}
	live, err := CreateRequest(database, b, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	removed, err := CleanupExpired(database)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	var remaining models.MergeRequest
	if err := database.First(&remaining, "token = ?", live.Token).Error; err != nil {
		t.Fatal("live request must survive cleanup")
	}
}

func TestCheckCandidate(t *testing.T) {
	database := newTestDB(t)
	caller := seedAccount(t, database, "google", map[string]string{"email": "a@x.com"})
	other := seedAccount(t, database, "github", map[string]string{"email": "b@x.com", "name": "Bee"})

	var ident models.ExternalIdentity
	if err := database.First(&ident, "account_id = ?", other).Error; err != nil {
		t.Fatalf("identity: %v", err)
	}

	// Unknown identity.
	if _, err := CheckCandidate(database, caller, "github", "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Caller's own identity.
	var own models.ExternalIdentity
	if err := database.First(&own, "account_id = ?", caller).Error; err != nil {
		t.Fatalf("own identity: %v", err)
	}
	if _, err := CheckCandidate(database, caller, own.Provider, own.ProviderUserID); err != ErrAlreadyOwned {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}

	// Mergeable candidate.
	candidate, err := CheckCandidate(database, caller, ident.Provider, ident.ProviderUserID)
	if err != nil {
		t.Fatalf("check candidate: %v", err)
	}
	if !candidate.CanMerge || candidate.OtherAccountID != other {
		t.Fatalf("unexpected candidate: %+v", candidate)
	}
	if candidate.OtherDisplayName != "Bee" || candidate.OtherEmail != "b@x.com" {
		t.Fatalf("candidate info incomplete: %+v", candidate)
	}
}
