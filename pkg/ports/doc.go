/*
Package ports defines the driven ports (interfaces) around the conversion core.

These interfaces decouple the converter from external implementations, allowing
definitions to come from various sources and results to be cached in various backends.

# Key Interfaces

  - DefinitionLoader: Responsible for loading automaton Definitions (e.g., from Loam, YAML files or Memory).
  - ResultStore: Responsible for persisting and loading conversion Results (e.g., Files, Redis or Memory).
  - DistributedLocker: Serializes conversions of the same result ID across replicas sharing a store.

The contract suites (RunResultStoreContract, RunDefinitionLoaderContract) let every
adapter prove it honors the same behavior.
*/
package ports
