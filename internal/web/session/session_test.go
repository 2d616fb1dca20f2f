package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
)

func TestData_WriteRead(t *testing.T) {
	Init(nil)

	id, err := GenerateSessionID()
	require.NoError(t, err)
	assert.Len(t, id, 64)

	in := Data{User: auth.User{ID: "42", Username: "anna", IsMIA: true}}
	require.NoError(t, in.Write(id, time.Minute))

	var out Data
	require.NoError(t, out.Read(id))
	assert.Equal(t, in.User.ID, out.User.ID)
	assert.True(t, out.User.IsMIA)

	require.NoError(t, Delete(id))
	require.ErrorIs(t, new(Data).Read(id), ErrNoSession)
	require.ErrorIs(t, new(Data).Read(""), ErrNoSession)
}

func TestNewStorage_Memory(t *testing.T) {
	assert.Nil(t, NewStorage(config.Session{}))
	assert.Nil(t, NewStorage(config.Session{Storage: "memory"}))
}
