// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package config loads and validates replication settings.

🎯 Purpose:
- Holds the defaults of a replication run
- Reads optional settings files in YAML, JSON or HCL
- Resolves per type overrides into a catalog registry
- Checks API credentials for URL endpoints

🔄 Flow:
1. Start from Default()
2. Overlay a settings file with Load
3. Overlay command line flags
4. Validate, then resolve credentials from the environment

📝 Example (YAML):

	source_project: system-catalog
	target_project: system-catalog
	concurrency: 5
	timeout: 30s
	include: ["team-*"]
	types:
	  workflow-handler:
	    version: v2

📝 Example (HCL):

	target_project = "staging-catalog"
	verify_tls     = true

	type "compute-profile" {
	  namespace = "infra.envmgmt.io"
	}
*/
package config
