package config

const ConfigTemplate = `db_driver = "{{ .DbDriver }}"
db_host = "{{ .DbHost }}"
db_port = {{ .DbPort }}
db_username = "{{ .DbUsername }}"
db_password = "{{ .DbPassword }}"
db_schema = "{{ .DbSchema }}"
in_memory = {{ .InMemory }}

server_port = {{ .ServerPort }}
upstream_url = "{{ .UpstreamUrl }}"
cache_size = {{ .CacheSize }}

[chains]{{ range $k, $v := .Chains }}
	[chains.{{ $k }}]
	chain = "{{ $v.Chain }}"
	type = "{{ $v.Type }}"
	rpcs = [{{ range $i, $rpc := $v.Rpcs }}{{ if $i }}, {{ end }}"{{ $rpc }}"{{ end }}]
	rpc_timeout = {{ $v.RpcTimeout }}
	wait_timeout = {{ $v.WaitTimeout }}
	poll_interval = {{ $v.PollInterval }}
{{ end }}
`
