package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/yamdb/yamdb/internal/server/models"
)

// CodeGenerator issues stateless confirmation codes of the form
// "<base36 unix seconds>-<hex hmac>". A code stops verifying once it is
// older than the timeout or once the user's last_login or email changes.
type CodeGenerator struct {
	key     []byte
	timeout time.Duration
	now     func() time.Time
}

func NewCodeGenerator(key []byte, timeout time.Duration) *CodeGenerator {
	return &CodeGenerator{key: key, timeout: timeout, now: time.Now}
}

func (g *CodeGenerator) MakeCode(u *models.User) string {
	return g.makeCode(u, g.now().Unix())
}

// CheckCode reports whether code was issued for u and is still fresh.
func (g *CodeGenerator) CheckCode(u *models.User, code string) bool {
	if u == nil || code == "" {
		return false
	}

	tsPart, _, ok := strings.Cut(code, "-")
	if !ok {
		return false
	}
	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil || ts < 0 {
		return false
	}

	if !hmac.Equal([]byte(g.makeCode(u, ts)), []byte(code)) {
		return false
	}

	return g.now().Sub(time.Unix(ts, 0)) <= g.timeout
}

func (g *CodeGenerator) makeCode(u *models.User, ts int64) string {
	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(fingerprint(u, ts)))
	return strconv.FormatInt(ts, 36) + "-" + hex.EncodeToString(mac.Sum(nil))
}

func fingerprint(u *models.User, ts int64) string {
	var login string
	if u.LastLogin != nil {
		login = strconv.FormatInt(u.LastLogin.Unix(), 10)
	}
	return strings.Join([]string{
		strconv.FormatInt(u.ID, 10),
		login,
		u.Email,
		strconv.FormatInt(ts, 10),
	}, "|")
}
