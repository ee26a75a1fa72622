package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"myanmar-travel/models"
)

func pngBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, "test-secret", time.Hour)
	ctx := t.Context()

	res, err := svc.Register(ctx, RegisterInput{Username: "mya", Email: " Mya@Example.com ", Password: "golden-rock", FullName: "Mya Mya"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Email != "mya@example.com" || res.User.Role != models.RoleUser || res.TokenType != "Bearer" || res.ExpiresIn != 3600 {
		t.Fatalf("unexpected auth result %+v", res)
	}
	if res.User.Password == "golden-rock" {
		t.Fatalf("password must be hashed")
	}

	claims, err := svc.ParseToken(res.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != res.User.ID || claims.Role != models.RoleUser || claims.Subject != "mya" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := svc.Register(ctx, RegisterInput{Username: "mya", Email: "other@example.com", Password: "golden-rock"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate username, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "short", Email: "s@example.com", Password: "123"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected short password rejection, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "bad", Email: "not-an-email", Password: "golden-rock"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected bad email rejection, got %v", err)
	}

	for _, id := range []string{"mya", "MYA@example.com"} {
		if _, err := svc.Login(ctx, id, "golden-rock"); err != nil {
			t.Fatalf("login as %q: %v", id, err)
		}
	}
	if _, err := svc.Login(ctx, "mya", "wrong-password"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "golden-rock"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	db := newTestDB(t)
	a := NewUserService(db, "secret-a", time.Hour)
	b := NewUserService(db, "secret-b", time.Hour)

	token, err := a.Sign(models.User{ID: 7, Username: "kyaw", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := b.ParseToken(token); err == nil {
		t.Fatalf("token signed with another secret must fail")
	}
	if _, err := a.ParseToken(token + "x"); err == nil {
		t.Fatalf("tampered token must fail")
	}
	expired := NewUserService(db, "secret-a", time.Hour)
	expired.ttl = -time.Minute
	old, _ := expired.Sign(models.User{ID: 7})
	if _, err := a.ParseToken(old); err == nil {
		t.Fatalf("expired token must fail")
	}
}

func TestAuthorizeUsesCurrentRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, "test-secret", time.Hour)
	ctx := t.Context()

	res, err := svc.Register(ctx, RegisterInput{Username: "kyaw", Email: "kyaw@example.com", Password: "golden-rock"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.SetRole(ctx, res.User.ID, models.RoleAdmin); err != nil {
		t.Fatalf("promote: %v", err)
	}
	claims, err := svc.Authorize(ctx, res.Token)
	if err != nil || claims.Role != models.RoleAdmin {
		t.Fatalf("expected promoted role from db, got %+v %v", claims, err)
	}

	if err := db.Delete(&models.User{}, res.User.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := svc.Authorize(ctx, res.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted user token must fail, got %v", err)
	}
}

func TestProfileAndPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, "s", time.Hour)
	svc.UploadDir = t.TempDir()
	ctx := t.Context()

	res, err := svc.Register(ctx, RegisterInput{Username: "zaw", Email: "zaw@example.com", Password: "inle-lake-1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	id := res.User.ID

	name, country := "Zaw Min", "Myanmar"
	user, err := svc.UpdateProfile(ctx, id, ProfileUpdate{FullName: &name, Nationality: &country, Avatar: "data:image/png;base64," + pngBase64(t)})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.FullName != name || user.Nationality != country {
		t.Fatalf("profile not saved: %+v", user)
	}
	if !strings.HasPrefix(user.ProfilePicture, "avatars/") || !strings.HasSuffix(user.ProfilePicture, ".png") {
		t.Fatalf("unexpected avatar path %q", user.ProfilePicture)
	}
	if _, err := os.Stat(filepath.Join(svc.UploadDir, user.ProfilePicture)); err != nil {
		t.Fatalf("avatar not written: %v", err)
	}

	bad := "nope"
	if _, err := svc.UpdateProfile(ctx, id, ProfileUpdate{Email: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid email, got %v", err)
	}

	if err := svc.ChangePassword(ctx, id, "wrong", "new-password"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected wrong current password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, id, "inle-lake-1", "new-password"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Login(ctx, "zaw", "new-password"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestSetRoleKeepsOneAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, "s", time.Hour)
	ctx := t.Context()

	admin := models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin}
	user := models.User{Username: "su", Email: "su@example.com", Role: models.RoleUser}
	mustCreate(t, db, &admin)
	mustCreate(t, db, &user)

	if _, err := svc.SetRole(ctx, admin.ID, models.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected last admin protection, got %v", err)
	}
	if _, err := svc.SetRole(ctx, user.ID, "owner"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid role, got %v", err)
	}
	promoted, err := svc.SetRole(ctx, user.ID, models.RoleAdmin)
	if err != nil || !promoted.IsAdmin() {
		t.Fatalf("promote: %v", err)
	}
	if _, err := svc.SetRole(ctx, admin.ID, models.RoleUser); err != nil {
		t.Fatalf("demote with another admin present: %v", err)
	}

	found, _ := svc.List(ctx, "SU@")
	if len(found) != 1 || found[0].ID != user.ID {
		t.Fatalf("search users: %+v", found)
	}
}

func TestSaveBase64Image(t *testing.T) {
	root := t.TempDir()
	path, err := SaveBase64Image(root, "posts", pngBase64(t))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Dir(path) != "posts" {
		t.Fatalf("unexpected path %q", path)
	}
	if _, err := SaveBase64Image(root, "posts", "%%%"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected bad base64 rejection, got %v", err)
	}
	text := base64.StdEncoding.EncodeToString([]byte("just some text"))
	if _, err := SaveBase64Image(root, "posts", text); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unsupported type rejection, got %v", err)
	}
}
