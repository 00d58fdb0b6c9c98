// Package services contains the use cases of the account server. Every
// exported operation returns a mo.Either whose Left is an anticipated
// *common.Failure, plus an error reserved for infrastructure faults.
package services

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/mail"
	"github.com/dmitrijs2005/accountkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/server/validation"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
	"github.com/samber/mo"
)

// Deps are the collaborators shared by all services. Metrics may be nil.
type Deps struct {
	Tx        dbx.Transactor
	Repos     repomanager.RepositoryManager
	Clock     timex.Clock
	Hasher    auth.Hasher
	Codec     *auth.Codec
	Validator *validation.Validator
	Mailer    mail.Dispatcher
	Metrics   *metrics.Metrics
	Log       logging.Logger
}

// Result is what every use case returns on its anticipated paths.
type Result[T any] = mo.Either[*common.Failure, T]

func left[T any](f *common.Failure) (Result[T], error) {
	return mo.Left[*common.Failure, T](f), nil
}

func right[T any](v T) (Result[T], error) {
	return mo.Right[*common.Failure, T](v), nil
}

// fault reports an infrastructure error. The Result is a Left holding nil and
// must not be inspected. A zero mo.Either is a Right, so it is never returned.
func fault[T any](err error) (Result[T], error) {
	return mo.Left[*common.Failure, T](nil), err
}

// leftOrFault returns the fault when err is set and the failure otherwise.
func leftOrFault[T any](f *common.Failure, err error) (Result[T], error) {
	if err != nil {
		return fault[T](err)
	}
	return left[T](f)
}

// errRollback aborts a transaction whose outcome is a Left value.
var errRollback = errors.New("rollback")

func outcome(isRight bool, err error) string {
	switch {
	case err != nil:
		return metrics.OutcomeError
	case isRight:
		return metrics.OutcomeSuccess
	default:
		return metrics.OutcomeFailure
	}
}

func daysToDuration(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}
