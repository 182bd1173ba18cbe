package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reviewhub/internal/models"
)

// codeGenerator derives single-use confirmation codes from mutable account
// state. A code is valid while its timestamp is inside the TTL and the
// state it was derived from (here: last_login) is unchanged, so redeeming
// a code invalidates every code issued before it.
type codeGenerator struct {
	secret []byte
	ttl    time.Duration
}

func newCodeGenerator(secret string, ttl time.Duration) codeGenerator {
	return codeGenerator{secret: []byte(secret), ttl: ttl}
}

// Make returns a code of the form "<ts-base36>-<hex mac>".
func (g codeGenerator) Make(user *models.User, now time.Time) string {
	ts := now.Unix()
	return strconv.FormatInt(ts, 36) + "-" + g.sign(user, ts)
}

// Check verifies a code against the account's current state.
func (g codeGenerator) Check(user *models.User, code string, now time.Time) bool {
	parts := strings.SplitN(code, "-", 2)
	if len(parts) != 2 {
		return false
	}

	ts, err := strconv.ParseInt(parts[0], 36, 64)
	if err != nil {
		return false
	}

	issued := time.Unix(ts, 0)
	if issued.After(now.Add(time.Minute)) {
		return false
	}
	if now.Sub(issued) > g.ttl {
		return false
	}

	expected := g.sign(user, ts)
	return hmac.Equal([]byte(expected), []byte(parts[1]))
}

func (g codeGenerator) sign(user *models.User, ts int64) string {
	var lastLogin int64
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.Unix()
	}

	mac := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(mac, "%s|%s|%d|%d", user.ID, user.Email, lastLogin, ts)
	return hex.EncodeToString(mac.Sum(nil))
}
