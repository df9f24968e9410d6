// Package repomanager maps a database handle (connection or transaction)
// to entity repositories, so services can run the same repository code
// inside and outside transactions.
package repomanager

import (
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/actiontokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

// RepositoryManager returns a repository bound to the given DBTX, which is
// either the pooled *sql.DB or an open *sql.Tx.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	VerificationTokens(db dbx.DBTX) actiontokens.Repository
	PasswordResetTokens(db dbx.DBTX) actiontokens.Repository
}
