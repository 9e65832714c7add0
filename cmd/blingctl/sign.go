package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	appwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/webhook"
	domainwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/webhook"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/config"
)

// signCmd calcula la cabecera de firma para un cuerpo, o verifica una existente.
// El cuerpo se lee tal cual: cualquier cambio de bytes invalida la firma.
func signCmd() *cobra.Command {
	var secret, file, verify string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Firma un cuerpo de webhook con HMAC-SHA256 (sha256=<hex>)",
		Example: "  blingctl sign --secret s3cr3t --file evento.json\n" +
			"  cat evento.json | blingctl sign --file - --verify sha256=...",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.Webhook.ClientSecret
			}
			if secret == "" {
				return errors.New("secreto vacío: usar --secret o BLING_CLIENT_SECRET")
			}
			body, err := readBody(cmd, file)
			if err != nil {
				return err
			}

			if verify != "" {
				if !domainwebhook.ValidateSignature(body, verify, secret) {
					return errors.New("firma inválida")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "firma válida")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", appwebhook.HeaderSignature, domainwebhook.Sign(body, secret))
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "client secret de Bling (por defecto BLING_CLIENT_SECRET)")
	cmd.Flags().StringVar(&file, "file", "-", "archivo con el cuerpo; - para stdin")
	cmd.Flags().StringVar(&verify, "verify", "", "firma a verificar en lugar de generar")
	return cmd
}

func readBody(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return b, nil
}
