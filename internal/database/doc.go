// Copyright (c) ClinicalFlow Authors.
// Licensed under the MIT License.

/*
Package database opens the gorm connection behind the run history store.

# Core types

  - PoolManager: owns the gorm handle and its sql.DB pool, with Ping, Stats,
    WithTransaction and Close.
  - PoolConfig: pool limits taken from config.DatabaseConfig.

# Drivers

  - sqlite: github.com/glebarez/sqlite, pure Go, limited to one connection
  - postgres: gorm.io/driver/postgres
*/
package database
