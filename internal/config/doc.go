// SPDX-License-Identifier: MPL-2.0

// Package config locates and reads project configuration.
//
// Two documents are involved: the Ansible project's own ansible.cfg (found
// by walking up from a starting directory, or via ANSIBLE_CONFIG), which
// declares inventory sources and roles/collections paths; and ansictl's own
// project registry, a YAML file naming known projects and a default
// selection.
package config
