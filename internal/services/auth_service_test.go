package services

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"gymstock/internal/domain"
	"gymstock/internal/repos"
)

func authFixture(t *testing.T) *AuthService {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return &AuthService{Users: repos.NewUserRepo(db)}
}

func TestSeededPasswordsAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
	}
	var adminHash string
	if err := db.Get(&adminHash, `SELECT password_hash FROM users WHERE username='admin'`); err != nil {
		t.Fatalf("get admin hash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(adminHash), []byte("Admin123!")); err != nil {
		t.Fatalf("seed hash does not validate known password: %v", err)
	}
}

func TestLoginBindsSession(t *testing.T) {
	auth := authFixture(t)

	u, err := auth.Login("sid-1", "manager1", "Manager123!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Role != domain.RoleManager {
		t.Fatalf("role = %q, want manager", u.Role)
	}

	cur, err := auth.CurrentUser("sid-1")
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if cur.ID != u.ID {
		t.Fatalf("session resolves to %q, want %q", cur.ID, u.ID)
	}

	if err := auth.Logout("sid-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := auth.CurrentUser("sid-1"); err == nil {
		t.Fatal("session should be unbound after logout")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := authFixture(t)

	if _, err := auth.Login("sid-1", "manager1", "wrongpass"); !errors.Is(err, ErrBadCreds) {
		t.Fatalf("wrong password: err = %v, want ErrBadCreds", err)
	}
	if _, err := auth.Login("sid-1", "nobody", "Manager123!"); !errors.Is(err, ErrBadCreds) {
		t.Fatalf("unknown user: err = %v, want ErrBadCreds", err)
	}
}

func TestRegisterStudentUniqueness(t *testing.T) {
	auth := authFixture(t)

	u, err := auth.RegisterStudent("asha", "Asha Patil", "asha@kletech.ac.in", "01FE22BCS007", "Computer Science", "Student123!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != domain.RoleStudent || u.Username != "asha" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := auth.RegisterStudent("asha", "Another", "", "01FE22BCS008", "Mechanical", "Student123!"); !errors.Is(err, ErrUserTaken) {
		t.Fatalf("dup username: err = %v, want ErrUserTaken", err)
	}
	if _, err := auth.RegisterStudent("asha2", "Another", "", "01FE22BCS007", "Mechanical", "Student123!"); !errors.Is(err, ErrUserTaken) {
		t.Fatalf("dup regno: err = %v, want ErrUserTaken", err)
	}

	if _, err := auth.Login("sid-9", "asha", "Student123!"); err != nil {
		t.Fatalf("login as new student: %v", err)
	}
}

func TestCreateManager(t *testing.T) {
	auth := authFixture(t)

	m, err := auth.CreateManager("manager2", "Second Manager", "m2@kletech.ac.in", "Manager123!")
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	if m.Role != domain.RoleManager || m.RegistrationNumber != "" {
		t.Fatalf("unexpected manager: %+v", m)
	}
	if _, err := auth.CreateManager("manager2", "Clone", "", "Manager123!"); !errors.Is(err, ErrUserTaken) {
		t.Fatalf("dup manager: err = %v, want ErrUserTaken", err)
	}
}
