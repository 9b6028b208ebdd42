// Package platform describes the operating system and CPU architecture a Node
// runtime is provisioned for. A single table maps each Key to the release
// asset naming tags, the archive format and the binary location inside an
// unpacked release, so asset names, archive kinds and binary paths never
// disagree. It also carries the small filesystem helpers whose behavior
// differs on Windows.
package platform
