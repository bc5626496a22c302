// cmd/seeduser/main.go — Crea o actualiza el usuario administrador inicial.
// Uso: go run ./cmd/seeduser -username admin -password secreto
package main

import (
	"flag"
	"os"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/config"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/infra"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	username := flag.String("username", "admin", "usuario")
	password := flag.String("password", "", "password (obligatorio)")
	nombre := flag.String("nombre", "Administrador", "nombre visible")
	rol := flag.String("rol", model.RolAdministrador, "cajero | administrador")
	flag.Parse()

	if *password == "" {
		log.Fatal().Msg("-password es obligatorio")
	}
	if *rol != model.RolCajero && *rol != model.RolAdministrador {
		log.Fatal().Str("rol", *rol).Msg("rol desconocido")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	result := db.Exec(`
		INSERT INTO usuarios (id, username, nombre, password_hash, rol, activo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, true, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    nombre = EXCLUDED.nombre,
		    rol = EXCLUDED.rol,
		    activo = true,
		    updated_at = NOW()
	`, uuid.New(), *username, *nombre, string(hash), *rol)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert")
	}
	log.Info().Str("username", *username).Str("rol", *rol).Msg("usuario creado/actualizado")
}
