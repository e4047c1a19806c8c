// Package sync installs tracked components and keeps them up to date.
//
// # Core Interfaces
//
//   - Manager: installs, updates and purges a single component
//   - VersionDetector: finds newer versions of versioned download URLs
//
// # Component Types
//
// How a component is brought up to date depends on its type:
//
//   - git: the repository is pulled, with submodules when recursive
//   - urlfile: the next fix, minor and major versions of the file name are
//     looked up; without a newer file the URL is downloaded again and the file
//     replaced only when its digest changed
//   - gitrelease: the assets of the latest release are downloaded when its tag
//     is newer than the recorded version
//   - pip: the package is installed with --upgrade
//
// # Coordinator Package
//
// The sync/coordinator subpackage runs updates of many components with bounded
// concurrency and persists the outcome of each in the status directory.
package sync
