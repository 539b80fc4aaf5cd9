// Package assets はバイナリに同梱するマイグレーションを提供します。
package assets

import "embed"

// Migrations は golang-migrate 形式のマイグレーションファイルです。
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir は Migrations 内のマイグレーションのディレクトリ名です。
const MigrationsDir = "migrations"
