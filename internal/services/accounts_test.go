package services

import (
	"context"
	"testing"
)

func TestRegisterValidation(t *testing.T) {
	svc := NewAccountService(newTestDB(t))

	user, errs, err := svc.Register(context.Background(), RegisterInput{Username: "a@", Email: "nope", Password: "x"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user != nil {
		t.Fatal("Expected no user on validation failure")
	}
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, f := range []string{"email", "username", "password"} {
		if !fields[f] {
			t.Errorf("Expected a field error for %s, got %+v", f, errs)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAccountService(newTestDB(t))
	ctx := context.Background()

	user, errs, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "secret"})
	if err != nil || len(errs) > 0 {
		t.Fatalf("Register = (%v, %v)", errs, err)
	}
	if user.Password == "secret" {
		t.Error("Expected password to be hashed")
	}

	_, errs, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret"})
	if err != nil || len(errs) != 1 || errs[0].Field != "username" {
		t.Errorf("Expected duplicate username field error, got (%v, %v)", errs, err)
	}

	for _, name := range []string{"alice", "alice@example.com"} {
		got, errs, err := svc.Login(ctx, name, "secret")
		if err != nil || len(errs) > 0 || got.ID != user.ID {
			t.Errorf("Login(%s) = (%v, %v, %v)", name, got, errs, err)
		}
	}

	_, errs, _ = svc.Login(ctx, "alice", "wrong")
	if len(errs) != 1 || errs[0].Field != "password" {
		t.Errorf("Expected password field error, got %+v", errs)
	}
	_, errs, _ = svc.Login(ctx, "carol", "secret")
	if len(errs) != 1 || errs[0].Field != "usernameOrEmail" {
		t.Errorf("Expected usernameOrEmail field error, got %+v", errs)
	}

	me, err := svc.Me(ctx, user.ID)
	if err != nil || me.Username != "alice" {
		t.Errorf("Me = (%v, %v)", me, err)
	}
}
