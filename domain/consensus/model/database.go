package model

import "github.com/emberchain/emberd/infrastructure/db/database"

// DBContext is the data access surface stores read through. Both the base
// database and an open transaction satisfy it.
type DBContext = database.DataAccessor

// DBTransaction is an open database transaction. Staged store data is
// committed through it so that a whole chain mutation lands in one batch.
type DBTransaction = database.Transaction

// DBManager is a database that can begin transactions.
type DBManager = database.Database
