package main

import (
	"context"
	"flag"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Karuna-AI/karuna-platform-sub001/api"
	"github.com/Karuna-AI/karuna-platform-sub001/consent"
	"github.com/Karuna-AI/karuna-platform-sub001/schema"
	"github.com/Karuna-AI/karuna-platform-sub001/store"
)

func initConfig(configFile string) {
	viper.SetDefault("server.address", ":8090")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("mongo.conn", "mongodb://127.0.0.1:27017")
	viper.SetDefault("mongo.database", "karuna")

	viper.SetEnvPrefix("karuna")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			log.WithError(err).Fatal("fail to read the config file")
		}
	}
}

func initLog() {
	level, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.JSONFormatter{})
}

func main() {
	var configFile string
	flag.StringVar(&configFile, "c", "", "configuration file")
	flag.Parse()

	initConfig(configFile)
	initLog()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(viper.GetString("mongo.conn")))
	if err != nil {
		log.WithError(err).Fatal("fail to connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.WithError(err).Fatal("fail to ping mongodb")
	}

	if err := schema.NewMongoDBIndexer(viper.GetString("mongo.conn"), viper.GetString("mongo.database")).IndexAll(); err != nil {
		log.WithError(err).Fatal("fail to create mongodb indexes")
	}

	mongoStore := store.NewMongoStore(client, viper.GetString("mongo.database"))
	manager := consent.NewManager(mongoStore, mongoStore)

	server := api.NewServer(manager, viper.GetBool("server.trace"))
	log.WithField("address", viper.GetString("server.address")).Info("consent engine started")
	if err := server.Run(viper.GetString("server.address")); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
