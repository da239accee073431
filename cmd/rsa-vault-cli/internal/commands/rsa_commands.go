package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
	"github.com/MGTheTrain/rsa-vault/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/config"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Key file name suffixes written by generate-keys.
const (
	PrivateKeyFileSuffix = "-private-key"
	PublicKeyFileSuffix  = "-public-key.pub"
)

// RSACommandHandler encapsulates logic for handling RSA operations via CLI.
type RSACommandHandler struct {
	settings *config.KeyGenSettings
	logger   logger.Logger
}

// NewRSACommandHandler creates an RSACommandHandler. Generation flags override
// settings per invocation.
func NewRSACommandHandler(settings *config.KeyGenSettings, logger logger.Logger) (*RSACommandHandler, error) {
	if settings == nil {
		return nil, fmt.Errorf("key generation settings cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &RSACommandHandler{settings: settings, logger: logger}, nil
}

func (commandHandler *RSACommandHandler) processor(settings *config.KeyGenSettings, progress rsakeys.ProgressFunc) (rsakeys.RSAProcessor, error) {
	rsaProcessor, err := cryptography.NewRSAProcessorFromSettings(settings, progress, commandHandler.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create RSA processor: %w", err)
	}
	return rsaProcessor, nil
}

// GenerateKeysCmd generates an RSA key pair and persists it in the selected directory
func (commandHandler *RSACommandHandler) GenerateKeysCmd(cmd *cobra.Command, _ []string) error {
	keySize, err := cmd.Flags().GetInt("key-size")
	if err != nil {
		return fmt.Errorf("invalid key-size flag: %w", err)
	}
	keyDir, err := cmd.Flags().GetString("key-dir")
	if err != nil {
		return fmt.Errorf("invalid key-dir flag: %w", err)
	}
	exponentPolicy, err := cmd.Flags().GetString("exponent-policy")
	if err != nil {
		return fmt.Errorf("invalid exponent-policy flag: %w", err)
	}
	showProgress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return fmt.Errorf("invalid progress flag: %w", err)
	}
	showResults, err := cmd.Flags().GetBool("results")
	if err != nil {
		return fmt.Errorf("invalid results flag: %w", err)
	}

	settings := *commandHandler.settings
	if exponentPolicy != "" {
		settings.ExponentPolicy = exponentPolicy
	}

	out := cmd.OutOrStdout()
	var progress rsakeys.ProgressFunc
	if showProgress {
		progress = func(stage string) {
			fmt.Fprintln(out, stage)
		}
	}

	rsaProcessor, err := commandHandler.processor(&settings, progress)
	if err != nil {
		return err
	}

	privateKey, publicKey, err := rsaProcessor.GenerateKeys(cmd.Context(), keySize)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(keyDir, 0750); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	uniqueID := uuid.New().String()
	privateKeyFilePath := filepath.Join(keyDir, uniqueID+PrivateKeyFileSuffix)
	if err := rsaProcessor.SavePrivateKeyToFile(privateKey, privateKeyFilePath); err != nil {
		return err
	}
	publicKeyFilePath := filepath.Join(keyDir, uniqueID+PublicKeyFileSuffix)
	if err := rsaProcessor.SavePublicKeyToFile(publicKey, publicKeyFilePath); err != nil {
		return err
	}

	if showResults {
		fmt.Fprintf(out, "N: %d bits\nE: %d bits\nD: %d bits\n",
			publicKey.BitLen(), publicKey.Exponent().BitLen(), privateKey.Exponent().BitLen())
	}
	fmt.Fprintln(out, publicKeyFilePath)
	fmt.Fprintln(out, privateKeyFilePath)
	return nil
}

// EncryptCmd encrypts a file with an RSA public key
func (commandHandler *RSACommandHandler) EncryptCmd(cmd *cobra.Command, _ []string) error {
	inputFile, outputFile, err := ioFlags(cmd)
	if err != nil {
		return err
	}
	publicKeyPath, err := cmd.Flags().GetString("public-key")
	if err != nil {
		return fmt.Errorf("invalid public-key flag: %w", err)
	}

	rsaProcessor, err := commandHandler.processor(commandHandler.settings, nil)
	if err != nil {
		return err
	}

	publicKey, err := rsaProcessor.ReadPublicKey(publicKeyPath)
	if err != nil {
		return err
	}

	plainText, err := os.ReadFile(filepath.Clean(inputFile))
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	encryptedData, err := rsaProcessor.Encrypt(plainText, publicKey)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputFile, encryptedData, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	commandHandler.logger.Info("Encrypted data path ", outputFile)
	return nil
}

// DecryptCmd decrypts a file with an RSA private key
func (commandHandler *RSACommandHandler) DecryptCmd(cmd *cobra.Command, _ []string) error {
	inputFile, outputFile, err := ioFlags(cmd)
	if err != nil {
		return err
	}
	privateKeyPath, err := cmd.Flags().GetString("private-key")
	if err != nil {
		return fmt.Errorf("invalid private-key flag: %w", err)
	}

	rsaProcessor, err := commandHandler.processor(commandHandler.settings, nil)
	if err != nil {
		return err
	}

	privateKey, err := rsaProcessor.ReadPrivateKey(privateKeyPath)
	if err != nil {
		return err
	}

	encryptedData, err := os.ReadFile(filepath.Clean(inputFile))
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	decryptedData, err := rsaProcessor.Decrypt(encryptedData, privateKey)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputFile, decryptedData, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	commandHandler.logger.Info("Decrypted data path ", outputFile)
	return nil
}

// ValidateCmd checks key file format and, given both keys, that they form a pair
func (commandHandler *RSACommandHandler) ValidateCmd(cmd *cobra.Command, _ []string) error {
	publicKeyPath, err := cmd.Flags().GetString("public-key")
	if err != nil {
		return fmt.Errorf("invalid public-key flag: %w", err)
	}
	privateKeyPath, err := cmd.Flags().GetString("private-key")
	if err != nil {
		return fmt.Errorf("invalid private-key flag: %w", err)
	}
	if publicKeyPath == "" && privateKeyPath == "" {
		return errors.New("at least one of --public-key or --private-key is required")
	}

	rsaProcessor, err := commandHandler.processor(commandHandler.settings, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var publicKey *rsakeys.PublicKey
	if publicKeyPath != "" {
		if publicKey, err = rsaProcessor.ReadPublicKey(publicKeyPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "public key: ok (%d bits)\n", publicKey.BitLen())
	}

	var privateKey *rsakeys.PrivateKey
	if privateKeyPath != "" {
		if privateKey, err = rsaProcessor.ReadPrivateKey(privateKeyPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "private key: ok (%d bits)\n", privateKey.BitLen())
	}

	if publicKey != nil && privateKey != nil {
		if err := rsaProcessor.ValidateKeyPair(publicKey, privateKey); err != nil {
			return err
		}
		fmt.Fprintln(out, "key pair: ok")
	}
	return nil
}

func ioFlags(cmd *cobra.Command) (string, string, error) {
	inputFile, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return "", "", fmt.Errorf("invalid input-file flag: %w", err)
	}
	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		return "", "", fmt.Errorf("invalid output-file flag: %w", err)
	}
	return inputFile, outputFile, nil
}

// InitRSACommands registers RSA-related commands
func InitRSACommands(rootCmd *cobra.Command, settings *config.KeyGenSettings) error {
	loggerInstance, err := setupLogger()
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}

	handler, err := NewRSACommandHandler(settings, loggerInstance)
	if err != nil {
		return fmt.Errorf("failed to create RSA command handler %w", err)
	}

	var generateKeysCmd = &cobra.Command{
		Use:   "generate-keys",
		Short: "Generate an RSA key pair",
		Args:  cobra.NoArgs,
		RunE:  handler.GenerateKeysCmd,
	}
	generateKeysCmd.Flags().Int("key-size", settings.DefaultKeySize, "Modulus size in bits (even, 8 to 8192)")
	generateKeysCmd.Flags().String("key-dir", ".", "Directory to store the key files")
	generateKeysCmd.Flags().String("exponent-policy", "", "Public exponent policy: default, search or random")
	generateKeysCmd.Flags().Bool("progress", false, "Print each generation stage")
	generateKeysCmd.Flags().Bool("results", false, "Print the bit lengths of N, E and D")
	rootCmd.AddCommand(generateKeysCmd)

	var encryptCmd = &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a file using an RSA public key",
		Args:  cobra.NoArgs,
		RunE:  handler.EncryptCmd,
	}
	encryptCmd.Flags().String("input-file", "", "Path to input file which needs to be encrypted")
	encryptCmd.Flags().String("output-file", "", "Path to encrypted output file")
	encryptCmd.Flags().String("public-key", "", "Path to RSA public key")
	for _, name := range []string{"input-file", "output-file", "public-key"} {
		if err := encryptCmd.MarkFlagRequired(name); err != nil {
			return err
		}
	}
	rootCmd.AddCommand(encryptCmd)

	var decryptCmd = &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a file using an RSA private key",
		Args:  cobra.NoArgs,
		RunE:  handler.DecryptCmd,
	}
	decryptCmd.Flags().String("input-file", "", "Path to encrypted file")
	decryptCmd.Flags().String("output-file", "", "Path to decrypted output file")
	decryptCmd.Flags().String("private-key", "", "Path to RSA private key")
	for _, name := range []string{"input-file", "output-file", "private-key"} {
		if err := decryptCmd.MarkFlagRequired(name); err != nil {
			return err
		}
	}
	rootCmd.AddCommand(decryptCmd)

	var validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate RSA key files",
		Args:  cobra.NoArgs,
		RunE:  handler.ValidateCmd,
	}
	validateCmd.Flags().String("public-key", "", "Path to RSA public key")
	validateCmd.Flags().String("private-key", "", "Path to RSA private key")
	rootCmd.AddCommand(validateCmd)

	return nil
}
