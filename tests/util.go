// Package testutil holds helpers shared by the test suites.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alumniconnect/alumniconnect/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Roles:     roles,
		IsActive:  &isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo user.Repository, name, email, pwd string) user.User {
	t.Helper()
	return CreateUser(t, repo, name, email, pwd, []string{user.RoleStudent}, true)
}

func CreateAlumni(t *testing.T, repo user.Repository, name, email, pwd string) user.User {
	t.Helper()
	return CreateUser(t, repo, name, email, pwd, []string{user.RoleAlumni}, true)
}

func CreateAdmin(t *testing.T, repo user.Repository, name, email, pwd string) user.User {
	t.Helper()
	return CreateUser(t, repo, name, email, pwd, user.AdminRoles, true)
}
