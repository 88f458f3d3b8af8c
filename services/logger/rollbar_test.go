package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/user"
)

var teacher = user.User{ID: "42", Username: "teacher1", Role: user.RoleTeacher, School: "شهید بهشتی"}

func newLogger(t *testing.T) (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST"})
	l.Enable(false)
	t.Cleanup(func() { l.Enable(false) })
	return l, &buf
}

func TestRollbarLogger_prepare(t *testing.T) {
	l, _ := newLogger(t)

	t.Run("user fields join the extras", func(t *testing.T) {
		args := l.prepare("user created", []interface{}{map[string]interface{}{"username": "maryam_h"}, teacher})
		require.Len(t, args, 2)
		assert.Equal(t, "user created", args[0])
		assert.Equal(t, map[string]interface{}{
			"username": "maryam_h",
			"role":     user.RoleTeacher,
			"school":   "شهید بهشتی",
		}, args[1])
	})

	t.Run("only the first user is kept", func(t *testing.T) {
		other := user.User{ID: "7", Username: "admin", Role: user.RoleSystemAdmin}
		args := l.prepare("oops", []interface{}{teacher, other})
		require.Len(t, args, 2)
		assert.Equal(t, map[string]interface{}{"role": user.RoleTeacher, "school": "شهید بهشتی"}, args[1])
	})

	t.Run("errors pass through", func(t *testing.T) {
		err := errors.New("lol")
		args := l.prepare("oops", []interface{}{err})
		assert.Equal(t, []interface{}{"oops", err}, args)
	})
}

func TestRollbarLogger_print(t *testing.T) {
	l, buf := newLogger(t)

	l.Info("user created", map[string]interface{}{"username": "maryam_h"}, teacher)
	out := buf.String()
	assert.Contains(t, out, "[info] user created\n")
	assert.Contains(t, out, "maryam_h")
	assert.Contains(t, out, "user: teacher1 (teacher)\n")

	buf.Reset()
	l.Warn("font not available")
	assert.Equal(t, "[warning] font not available\n", buf.String())
}
