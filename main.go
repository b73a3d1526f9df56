package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jinzhu/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	configFilePath := flag.String("configfile", "", "Configuration File Path")
	printTree := flag.Bool("tree", false, "Print the bucket structure and exit")
	flag.Parse()

	if *configFilePath == "" {
		log.Fatal("Required flag -configfile not set but required")
	}

	var appConfig AppConfig
	if configErr := configor.Load(&appConfig, *configFilePath); configErr != nil {
		log.Fatal(fmt.Sprintf("Error loading config: %s", configErr))
	}
	configureLogging(appConfig)
	loadEnvFile(appConfig)

	if validateErr := appConfig.Validate(); validateErr != nil {
		log.Fatal(validateErr)
	}

	client, clientErr := appConfig.ClientFromConfig(context.Background())
	if clientErr != nil {
		log.Fatal(fmt.Sprintf("Error creating bucket client: %s", clientErr))
	}

	if bucketErr := ensureBucket(client, appConfig.Bucket); bucketErr != nil {
		log.Fatal(bucketErr)
	}

	if *printTree {
		if treeErr := printBucketTree(client, appConfig.Bucket); treeErr != nil {
			log.Fatal(fmt.Sprintf("Error listing bucket: %s", treeErr))
		}
		return
	}

	if runErr := runSync(client, appConfig); runErr != nil {
		log.Fatal(fmt.Sprintf("Sync failed: %s", runErr))
	}
}

// ensureBucket fails fast before any scanning when the bucket is
// missing or not listable.
func ensureBucket(client BucketClient, bucket string) error {
	exists, existsErr := client.BucketExists(context.Background(), bucket)
	if existsErr != nil {
		return fmt.Errorf("error checking bucket %s: %w", bucket, existsErr)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	return nil
}

func printBucketTree(client BucketClient, bucket string) error {
	remoteIndex, listErr := client.ListObjects(context.Background(), bucket)
	if listErr != nil {
		return listErr
	}
	keys := make([]string, 0, len(remoteIndex))
	for key := range remoteIndex {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fmt.Print(formatBucketTree(keys))
	return nil
}

func configureLogging(appConfig AppConfig) {
	level, parseErr := log.ParseLevel(appConfig.LogLevel)
	if parseErr != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if appConfig.LogFile != "" {
		fd, openErr := os.OpenFile(appConfig.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			log.Warn(fmt.Sprintf("Unable to open log file %s: %s", appConfig.LogFile, openErr))
			return
		}
		log.SetOutput(fd)
	}
}

// loadEnvFile brings credentials in from a .env file when one is
// around, so the AWS/GCS config loaders pick them up from the
// environment.
func loadEnvFile(appConfig AppConfig) {
	envFile := appConfig.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, statErr := os.Stat(envFile); statErr != nil {
		log.Debug("No .env files found to load")
		return
	}
	if loadErr := godotenv.Overload(envFile); loadErr != nil {
		log.Warn(fmt.Sprintf("Error loading env file %s: %s", envFile, loadErr))
		return
	}
	log.Debug(fmt.Sprintf("Loading env file: %s", envFile))
}

// interruptContext cancels on SIGINT/SIGTERM. Interruption is a
// graceful-stop signal, not an error: the run still produces a final
// summary and metadata snapshot for whatever completed.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
