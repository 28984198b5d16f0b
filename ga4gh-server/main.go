// Copyright 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This binary provides a GA4GH API server that serves read alignment
// data from local directories or GCS buckets.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/profile"

	"github.com/googlegenomics/ga4gh/analytics"
	"github.com/googlegenomics/ga4gh/reads"
	"github.com/googlegenomics/ga4gh/server"
	"github.com/googlegenomics/ga4gh/storage"
)

var (
	port = flag.Int("port", 80, "HTTP service port")

	data    = flag.String("data", "", "directory with one subdirectory of BAM files per read group set")
	buckets = flag.String("buckets", "", "comma-separated list of GCS buckets to serve as read group sets")
	public  = flag.Bool("public_buckets", false, "read GCS buckets without credentials (publicly readable data only)")

	simulate = flag.Bool("simulate", false, "add a simulated read group set for testing clients")

	secure    = flag.Bool("secure", false, "serve in HTTPS-only mode")
	httpsCert = flag.String("https_cert", "", "HTTPS certificate file")
	httpsKey  = flag.String("https_key", "", "HTTPS key file")

	cpuProfile = flag.Bool("cpu_profile", false, "write a CPU profile to the working directory")

	// Enable or disable anonymous usage tracking.
	//
	// If enabled, anonymous information about requests handled by the server is
	// logged to Google via Google Analytics.
	//
	// This information helps Google determine how well the software is
	// performing and where improvements should be made.  No user identifying
	// information is ever sent to Google.
	trackUsage = flag.Bool("track_usage", false, "anonymous usage tracking")
)

func main() {
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	if *secure && (*httpsCert == "" || *httpsKey == "") {
		log.Fatalf("You must specify both -https_cert and -https_key in secure mode.")
	}

	backend := server.NewBackend()
	ctx := context.Background()

	if *data != "" {
		newLocalClient := storage.NewLocalClientFunc(*data)
		client, _, err := newLocalClient(nil)
		if err != nil {
			log.Fatalf("Creating local storage client: %v", err)
		}
		entries, err := ioutil.ReadDir(*data)
		if err != nil {
			log.Fatalf("Reading data directory: %v", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			addReadGroupSet(ctx, backend, client, entry.Name())
		}
	}

	if *buckets != "" {
		newStorageClient := storage.NewClientFunc(storage.NewDefaultClient)
		if *public {
			newStorageClient = storage.NewPublicClient
		}
		client, _, err := newStorageClient(nil)
		if err != nil {
			log.Fatalf("Creating storage client: %v", err)
		}
		for _, bucket := range strings.Split(*buckets, ",") {
			addReadGroupSet(ctx, backend, client, bucket)
		}
	}

	if *simulate {
		backend.AddReadGroupSet(reads.NewSimulatedReadGroupSet("simulated", 2))
	}

	router := gin.Default()
	server.NewServer(backend).Export(router)

	handler := http.Handler(router)
	if *trackUsage {
		log.Printf("Enabling anonymous usage tracking")

		client := analytics.NewClient("UA-103022118-1", uuid.New().String())
		handler = analytics.TrackingHandler(handler, func(hits []analytics.Hit) {
			if err := client.Send(hits); err != nil {
				log.Printf("Failed to send %d hits to analytics: %v", len(hits), err)
			}
		})
	}

	address := fmt.Sprintf(":%d", *port)
	if *secure {
		if err := http.ListenAndServeTLS(address, *httpsCert, *httpsKey, handler); err != nil {
			log.Fatalf("HTTPS server returned an error: %v", err)
		}
	} else {
		if err := http.ListenAndServe(address, handler); err != nil {
			log.Fatalf("HTTP server returned an error: %v", err)
		}
	}
}

func addReadGroupSet(ctx context.Context, backend *server.Backend, client storage.Client, bucket string) {
	set, err := reads.NewStoredReadGroupSet(ctx, client, bucket, bucket)
	if err != nil {
		log.Printf("Skipping read group set %s: %v", bucket, err)
		return
	}
	backend.AddReadGroupSet(set)
	log.Printf("Serving read group set %s (%d read groups)", bucket, len(set.ReadGroups()))
}
