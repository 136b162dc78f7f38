// Package storagetest holds the behavioural contract every storage backend must meet.
package storagetest

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/scoretracker/internal/storage"
)

// ContractSuite runs the storage contract against Store.
// Backend suites embed it and assign Store in their SetupTest.
type ContractSuite struct {
	suite.Suite
	Store storage.Storage
	Ctx   context.Context
}

func (s *ContractSuite) TestSetAndGet() {
	err := s.Store.Set(s.Ctx, storage.KeyPlayers, []byte(`[{"id":"p1","name":"Alice","score":0}]`))
	s.Require().NoError(err)

	value, err := s.Store.Get(s.Ctx, storage.KeyPlayers)
	s.Require().NoError(err)
	s.JSONEq(`[{"id":"p1","name":"Alice","score":0}]`, string(value))
}

func (s *ContractSuite) TestGetMissingKey() {
	_, err := s.Store.Get(s.Ctx, storage.KeyRounds)
	s.ErrorIs(err, storage.ErrKeyNotFound)
}

func (s *ContractSuite) TestSetOverwrites() {
	s.Require().NoError(s.Store.Set(s.Ctx, storage.KeyStage, []byte(`"players"`)))
	s.Require().NoError(s.Store.Set(s.Ctx, storage.KeyStage, []byte(`"game"`)))

	value, err := s.Store.Get(s.Ctx, storage.KeyStage)
	s.Require().NoError(err)
	s.Equal(`"game"`, string(value))
}

func (s *ContractSuite) TestSetMany() {
	err := s.Store.SetMany(s.Ctx, map[storage.Key][]byte{
		storage.KeyGameStarted: []byte(`true`),
		storage.KeyStage:       []byte(`"game"`),
	})
	s.Require().NoError(err)

	started, err := s.Store.Get(s.Ctx, storage.KeyGameStarted)
	s.Require().NoError(err)
	s.Equal(`true`, string(started))

	stage, err := s.Store.Get(s.Ctx, storage.KeyStage)
	s.Require().NoError(err)
	s.Equal(`"game"`, string(stage))
}

func (s *ContractSuite) TestDeleteSomeKeys() {
	s.Require().NoError(s.Store.Set(s.Ctx, storage.KeyRounds, []byte(`[]`)))
	s.Require().NoError(s.Store.Set(s.Ctx, storage.KeyScoringRules, []byte(`[]`)))
	s.Require().NoError(s.Store.Set(s.Ctx, storage.KeyPlayers, []byte(`[]`)))

	err := s.Store.Delete(s.Ctx, storage.KeyRounds, storage.KeyScoringRules)
	s.Require().NoError(err)

	_, err = s.Store.Get(s.Ctx, storage.KeyRounds)
	s.ErrorIs(err, storage.ErrKeyNotFound)
	_, err = s.Store.Get(s.Ctx, storage.KeyScoringRules)
	s.ErrorIs(err, storage.ErrKeyNotFound)

	_, err = s.Store.Get(s.Ctx, storage.KeyPlayers)
	s.NoError(err)
}

func (s *ContractSuite) TestDeleteMissingKeyIsNoop() {
	s.NoError(s.Store.Delete(s.Ctx, storage.AllKeys()...))
	s.NoError(s.Store.Delete(s.Ctx))
}

func (s *ContractSuite) TestReturnedValueIsIndependent() {
	s.Require().NoError(s.Store.Set(s.Ctx, storage.KeyStage, []byte(`"players"`)))

	value, err := s.Store.Get(s.Ctx, storage.KeyStage)
	s.Require().NoError(err)
	value[1] = 'X'

	again, err := s.Store.Get(s.Ctx, storage.KeyStage)
	s.Require().NoError(err)
	s.Equal(`"players"`, string(again))
}
